package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/albumdiff/internal/services"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	api     *services.APIService
	factory services.CatalogFactory
	logger  *log.Logger
	output  io.Writer
	diag    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config          // Skips config file loading when set
	API     *services.APIService    // Raw client for "api get"; built from config when nil
	Factory services.CatalogFactory // Catalog clients for runs; built from config when nil
	Logger  *log.Logger
	Output  io.Writer // Reports (default: stdout)
	Diag    io.Writer // Diagnostics and progress (default: stderr)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Diag == nil {
		opts.Diag = os.Stderr
	}

	return &Runner{
		config:  opts.Config,
		api:     opts.API,
		factory: opts.Factory,
		logger:  opts.Logger,
		output:  opts.Output,
		diag:    opts.Diag,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		missingCommand, latestCommand, libraryCommand, configCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration for a command: the config file (or defaults when the
// default path does not exist), then command-line overrides, then validation.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	var config *shared.Config
	if r.config != nil {
		copied := *r.config
		config = &copied
	} else {
		path := shared.ExpandPath(cmd.String("config"))
		if _, err := os.Stat(path); err == nil {
			if config, err = shared.LoadConfig(path); err != nil {
				return nil, err
			}
			r.logger.Debug("loaded config", "path", path)
		} else if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		} else {
			config = shared.DefaultConfig()
		}
	}

	if cmd.IsSet("library") {
		config.Library.Path = shared.ExpandPath(cmd.String("library"))
	}
	if cmd.IsSet("workers") {
		config.Reconcile.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("format") {
		config.Output.Format = cmd.String("format")
	}
	if cmd.IsSet("fail-fast") {
		config.Reconcile.FailFast = cmd.Bool("fail-fast")
	}
	if cmd.IsSet("country") {
		config.Catalog.Country = cmd.String("country")
	}
	if cmd.Bool("verbose") {
		config.Log.Level = "debug"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return nil, err
	}
	shared.SetLogLevel(r.logger, level)
	return config, nil
}

func (r *Runner) catalogFactory(config *shared.Config) services.CatalogFactory {
	if r.factory != nil {
		return r.factory
	}
	opts := services.CatalogOptsFromConfig(config.Catalog)
	opts.Logger = r.logger
	return services.NewCatalogFactory(opts, config.Reconcile.Workers)
}

func (r *Runner) apiService(config *shared.Config) *services.APIService {
	if r.api == nil {
		r.api = services.NewAPIService(config.Catalog.BaseURL, nil)
	}
	return r.api
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

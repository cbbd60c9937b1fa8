package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// OutputFormats lists the report formats accepted by [OutputConfig].
var OutputFormats = []string{"text", "json", "csv"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Reconcile ReconcileConfig `toml:"reconcile"`
	Library   LibraryConfig   `toml:"library"`
	Output    OutputConfig    `toml:"output"`
	Log       LogConfig       `toml:"log"`
}

// CatalogConfig contains iTunes Search API settings.
type CatalogConfig struct {
	BaseURL           string  `toml:"base_url"`
	Country           string  `toml:"country"`
	SearchLimit       int     `toml:"search_limit"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxRetries        int     `toml:"max_retries"`
	UserAgent         string  `toml:"user_agent"`
}

// Timeout converts TimeoutSeconds to a [time.Duration].
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReconcileConfig contains worker pool settings.
type ReconcileConfig struct {
	Workers  int  `toml:"workers"`
	FailFast bool `toml:"fail_fast"`
}

// LibraryConfig points at the local music library.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format string `toml:"format"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Validate rejects settings that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Reconcile.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Reconcile.Workers)
	}
	if c.Catalog.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Catalog.SearchLimit < 1 {
		return fmt.Errorf("%w: search_limit must be at least 1", ErrInvalidConfig)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	}
	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/albumdiff/internal/tasks"
)

const defaultConfigPath = "config.toml"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}
}

func libraryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "library",
		Aliases: []string{"l"},
		Usage:   "Library to read: iTunes XML, CSV, beets database or a folder of MP3 files",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, json, csv)",
	}
}

// runFlags are shared by the commands that query the catalog.
func runFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		libraryFlag(),
		formatFlag(),
		verboseFlag(),
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of concurrent catalog workers",
			Value:   tasks.DefaultWorkers,
		},
		&cli.BoolFlag{
			Name:  "fail-fast",
			Usage: "Stop the run at the first artist that fails",
		},
		&cli.StringFlag{
			Name:  "country",
			Usage: "Two-letter catalog storefront (e.g. us, gb)",
		},
		&cli.BoolFlag{
			Name:    "progress",
			Aliases: []string{"p"},
			Usage:   "Show per-artist progress and a summary on stderr",
		},
	}
}

// missingCommand reports the albums missing from the library.
func missingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "missing",
		Aliases: []string{"diff"},
		Usage:   "List the catalog albums missing from your library, per artist",
		Flags:   runFlags(),
		Action:  r.Missing,
	}
}

// latestCommand reports the newest album of each artist.
func latestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "latest",
		Usage:     "Show the most recent album of each artist (library artists when none are given)",
		ArgsUsage: "[artist...]",
		Flags:     runFlags(),
		Action:    r.Latest,
	}
}

// libraryCommand prints the parsed library.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "library",
		Usage:  "Print the artists and albums read from your library",
		Flags:  []cli.Flag{configFlag(), libraryFlag(), formatFlag(), verboseFlag()},
		Action: r.Library,
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.ConfigInit,
			},
			{
				Name:  "show",
				Usage: "Print the effective configuration as TOML",
				Flags: []cli.Flag{
					configFlag(),
					verboseFlag(),
				},
				Action: r.ConfigShow,
			},
		},
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the catalog, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

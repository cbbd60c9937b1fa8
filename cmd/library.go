package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/albumdiff/internal/formatter"
	"github.com/desertthunder/albumdiff/internal/library"
)

// Library prints the artists and albums read from the configured library.
func (r *Runner) Library(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := library.Load(config.Library.Path, r.logger)
	if err != nil {
		return err
	}
	r.logger.Info("library loaded", "artists", len(lib), "albums", lib.AlbumCount())

	data, err := formatter.ExportLibrary(lib, formatter.Format(config.Output.Format))
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

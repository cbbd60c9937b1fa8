package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/albumdiff/internal/formatter"
	"github.com/desertthunder/albumdiff/internal/library"
	"github.com/desertthunder/albumdiff/internal/shared"
	"github.com/desertthunder/albumdiff/internal/tasks"
	"github.com/desertthunder/albumdiff/internal/ui"
)

// Missing loads the library and reports, per artist, the catalog albums it does not contain.
func (r *Runner) Missing(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := library.Load(config.Library.Path, r.logger)
	if err != nil {
		return err
	}

	diag := &lockedWriter{w: r.diag}
	sink, reconciler, err := r.prepareRun(config, diag)
	if err != nil {
		return err
	}

	progress, finish := r.watchProgress(cmd.Bool("progress"), diag)
	result, err := reconciler.Run(ctx, lib, sink, progress)
	finish(result, err)
	return err
}

// Latest reports the most recent album of the given artists, or of every library artist when
// no artist is named.
func (r *Runner) Latest(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	artists := cmd.Args().Slice()
	if len(artists) == 0 {
		lib, err := library.Load(config.Library.Path, r.logger)
		if err != nil {
			return fmt.Errorf("%w: no artists given and %w", shared.ErrMissingArgument, err)
		}
		artists = lib.Artists()
	}

	diag := &lockedWriter{w: r.diag}
	sink, reconciler, err := r.prepareRun(config, diag)
	if err != nil {
		return err
	}

	progress, finish := r.watchProgress(cmd.Bool("progress"), diag)
	result, err := reconciler.Latest(ctx, artists, sink, progress)
	finish(result, err)
	return err
}

func (r *Runner) prepareRun(config *shared.Config, diag io.Writer) (tasks.Sink, *tasks.Reconciler, error) {
	format, err := formatter.ParseFormat(config.Output.Format)
	if err != nil {
		return nil, nil, err
	}
	sink, err := formatter.NewReportWriter(r.output, diag, format)
	if err != nil {
		return nil, nil, err
	}

	reconciler, err := tasks.NewReconciler(tasks.ReconcileOpts{
		Workers:  config.Reconcile.Workers,
		FailFast: config.Reconcile.FailFast,
		Factory:  r.catalogFactory(config),
		Logger:   r.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return sink, reconciler, nil
}

// watchProgress starts rendering progress updates to diag when enabled.
//
// The returned function must be called once the run returns; it drains the updates and prints
// the run summary.
func (r *Runner) watchProgress(enabled bool, diag io.Writer) (chan<- tasks.ProgressUpdate, func(*tasks.RunResult, error)) {
	if !enabled {
		return nil, func(*tasks.RunResult, error) {}
	}

	updates := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		ui.Watch(diag, updates)
		close(done)
	}()

	return updates, func(result *tasks.RunResult, err error) {
		close(updates)
		<-done
		fmt.Fprintln(diag, ui.RenderSummary(result, err))
	}
}

// lockedWriter serializes writes from the sink and the progress watcher.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

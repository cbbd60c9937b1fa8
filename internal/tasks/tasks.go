// package tasks implements the concurrent reconciliation of a music library against the catalog.
//
// The core abstraction is Reconciler, which builds one job per artist, runs them on a [Dispatcher]
// and hands each outcome to a [Sink].
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/albumdiff/internal/matcher"
	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/services"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// Sink consumes the outcomes of a run. Calls are never concurrent.
//
// An error returned from any method stops the run.
type Sink interface {
	// Report receives a non-empty missing-albums report.
	Report(r models.MissingReport) error
	// Latest receives the most recent album of an artist.
	Latest(r models.LatestReport) error
	// NotFound receives the diagnostic for an artist absent from the catalog.
	NotFound(artist string) error
	// Failure receives a job that failed for any other reason.
	Failure(artist string, err error) error
}

// ReconcileOpts configures a [Reconciler].
type ReconcileOpts struct {
	Workers  int                     // Pool size (default: 8)
	FailFast bool                    // Cancel the run on the first fatal job
	Factory  services.CatalogFactory // Builds one catalog client per worker
	Logger   *log.Logger
}

// RunResult summarizes a finished run.
type RunResult struct {
	RunID     string
	Jobs      int           // Artists dispatched
	Reports   int           // Reports handed to the sink
	UpToDate  int           // Artists missing nothing
	NotFound  int           // Artists absent from the catalog
	Failed    int           // Fatal job failures
	Cancelled int           // Jobs abandoned or interrupted by cancellation
	Elapsed   time.Duration // Wall time of the run
}

// Reconciler runs library reconciliations.
type Reconciler struct {
	workers  int
	failFast bool
	factory  services.CatalogFactory
	logger   *log.Logger
}

// NewReconciler validates opts and creates a Reconciler.
//
// A zero Workers value selects [DefaultWorkers]; a negative one is rejected.
func NewReconciler(opts ReconcileOpts) (*Reconciler, error) {
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", shared.ErrInvalidConfig, opts.Workers)
	}
	if opts.Factory == nil {
		return nil, fmt.Errorf("%w: catalog factory is required", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Reconciler{
		workers:  opts.Workers,
		failFast: opts.FailFast,
		factory:  opts.Factory,
		logger:   opts.Logger,
	}, nil
}

// BuildJobs creates one job per artist in sorted artist order.
func BuildJobs(lib models.Library) []models.Job {
	artists := lib.Artists()
	jobs := make([]models.Job, 0, len(artists))
	for _, a := range artists {
		jobs = append(jobs, models.Job{Artist: a, Owned: models.NewAlbumSet(lib[a].Names()...)})
	}
	return jobs
}

// Run reports, for every artist in lib, the canonical albums the library lacks.
//
// Artists missing nothing produce no report. Not-found artists go to [Sink.NotFound].
// Any other failure goes to [Sink.Failure] and makes Run return an error once every worker has stopped.
func (r *Reconciler) Run(ctx context.Context, lib models.Library, sink Sink, progress chan<- ProgressUpdate) (*RunResult, error) {
	return r.run(ctx, BuildJobs(lib), missingAlbums, sink, progress)
}

// Latest reports the most recent album of each artist.
func (r *Reconciler) Latest(ctx context.Context, artists []string, sink Sink, progress chan<- ProgressUpdate) (*RunResult, error) {
	seen := make(map[string]struct{}, len(artists))
	jobs := make([]models.Job, 0, len(artists))
	for _, a := range artists {
		a = strings.TrimSpace(a)
		if _, ok := seen[a]; ok || a == "" {
			continue
		}
		seen[a] = struct{}{}
		jobs = append(jobs, models.Job{Artist: a})
	}
	return r.run(ctx, jobs, latestAlbum, sink, progress)
}

func missingAlbums(ctx context.Context, catalog services.Catalog, job models.Job) (Outcome, error) {
	id, err := catalog.ResolveArtistID(ctx, job.Artist)
	if err != nil {
		return Outcome{}, err
	}

	canonical, err := catalog.FetchCanonicalAlbums(ctx, id)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Report: models.MissingReport{
		Artist:  job.Artist,
		Missing: matcher.ComputeMissing(canonical, job.Owned),
	}}, nil
}

func latestAlbum(ctx context.Context, catalog services.Catalog, job models.Job) (Outcome, error) {
	id, err := catalog.ResolveArtistID(ctx, job.Artist)
	if err != nil {
		return Outcome{}, err
	}

	name, err := catalog.FetchLatestAlbumName(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Latest: &models.LatestReport{Artist: job.Artist, Album: name}}, nil
}

func (r *Reconciler) run(parent context.Context, jobs []models.Job, fn JobFunc, sink Sink, progress chan<- ProgressUpdate) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: shared.GenerateID(), Jobs: len(jobs)}
	logger := shared.WithLogger(r.logger, "run_id", result.RunID)

	dispatcher, err := NewDispatcher(r.workers, r.factory, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		failures []error
		sinkErr  error
		done     int
	)

	logger.Info("starting run", "artists", len(jobs), "workers", r.workers)
	r.sendProgress(progress, dispatchUpdate(len(jobs), r.workers))

	err = dispatcher.Dispatch(ctx, jobs, fn, func(o Outcome) {
		done++
		if serr := r.handle(o, sink, result, &failures); serr != nil && sinkErr == nil {
			sinkErr = serr
			logger.Error("sink failed, cancelling run", "error", serr)
			cancel()
		}
		if o.Kind == OutcomeFatal && r.failFast {
			logger.Warn("fail fast: cancelling run", "artist", o.Job.Artist)
			cancel()
		}
		r.sendProgress(progress, artistUpdate(done, len(jobs), o))
	})
	if err != nil {
		return nil, err
	}

	result.Cancelled += len(jobs) - done
	result.Elapsed = time.Since(start)
	r.sendProgress(progress, completeUpdate(result))
	logger.Info("run finished",
		"reports", result.Reports,
		"up_to_date", result.UpToDate,
		"not_found", result.NotFound,
		"failed", result.Failed,
		"cancelled", result.Cancelled,
		"elapsed", result.Elapsed,
	)

	switch {
	case sinkErr != nil:
		return result, fmt.Errorf("failed to write output: %w", sinkErr)
	case len(failures) > 0:
		return result, fmt.Errorf("%w: %d of %d artists failed: %w",
			shared.ErrRunFailed, len(failures), len(jobs), errors.Join(failures...))
	case parent.Err() != nil:
		return result, fmt.Errorf("run interrupted: %w", parent.Err())
	}
	return result, nil
}

// handle forwards one outcome to the sink and updates the counters.
func (r *Reconciler) handle(o Outcome, sink Sink, result *RunResult, failures *[]error) error {
	switch o.Kind {
	case OutcomeOK:
		switch {
		case o.Latest != nil:
			result.Reports++
			return sink.Latest(*o.Latest)
		case o.Report.Empty():
			result.UpToDate++
			return nil
		default:
			result.Reports++
			return sink.Report(o.Report)
		}
	case OutcomeNotFound:
		result.NotFound++
		return sink.NotFound(o.Job.Artist)
	case OutcomeCancelled:
		result.Cancelled++
		return nil
	default:
		result.Failed++
		*failures = append(*failures, fmt.Errorf("%s: %w", o.Job.Artist, o.Err))
		return sink.Failure(o.Job.Artist, o.Err)
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (r *Reconciler) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

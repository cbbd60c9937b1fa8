package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/services"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 8

// OutcomeKind tags how a job ended.
type OutcomeKind int

const (
	OutcomeOK        OutcomeKind = iota // report produced
	OutcomeNotFound                     // artist absent from the catalog, recovered by the worker
	OutcomeFatal                        // any other failure, surfaced to the run
	OutcomeCancelled                    // run context ended while the job was in flight
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFatal:
		return "fatal"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// Outcome is the tagged result of a single job.
type Outcome struct {
	Kind   OutcomeKind
	Job    models.Job
	Report models.MissingReport // set for OK outcomes of a missing-albums run
	Latest *models.LatestReport // set for OK outcomes of a latest-album run
	Err    error
	Worker int
}

// JobFunc processes one job with the calling worker's catalog client.
//
// The dispatcher fills in Kind, Job, Err and Worker of the returned [Outcome].
type JobFunc func(ctx context.Context, catalog services.Catalog, job models.Job) (Outcome, error)

// Dispatcher runs jobs on a fixed pool of workers, each owning one catalog client.
type Dispatcher struct {
	workers int
	factory services.CatalogFactory
	logger  *log.Logger
}

// NewDispatcher validates the pool size and returns a dispatcher.
func NewDispatcher(workers int, factory services.CatalogFactory, logger *log.Logger) (*Dispatcher, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", shared.ErrInvalidConfig, workers)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: catalog factory is required", shared.ErrInvalidConfig)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Dispatcher{workers: workers, factory: factory, logger: logger}, nil
}

func (d *Dispatcher) Workers() int { return d.workers }

// Dispatch processes every job exactly once unless ctx ends first, calling emit for each outcome.
//
// emit is called from the caller's goroutine, one outcome at a time.
// Once ctx is done workers stop taking jobs; jobs never taken produce no outcome.
// Dispatch returns after every worker has stopped and released its client.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []models.Job, fn JobFunc, emit func(Outcome)) error {
	clients := make([]services.Catalog, 0, d.workers)
	for i := range d.workers {
		c, err := d.factory(i)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return fmt.Errorf("failed to create catalog client for worker %d: %w", i, err)
		}
		clients = append(clients, c)
	}

	queue := make(chan models.Job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	results := make(chan Outcome, d.workers)

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go d.worker(ctx, &wg, i, c, queue, results, fn)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		emit(o)
	}
	return nil
}

// worker pulls jobs until the queue is drained or ctx is done.
func (d *Dispatcher) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	id int,
	client services.Catalog,
	queue <-chan models.Job,
	results chan<- Outcome,
	fn JobFunc,
) {
	defer wg.Done()
	logger := shared.WithLogger(d.logger, "worker", id)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close catalog client", "error", err)
		}
	}()

	processed := 0
	for job := range queue {
		select {
		case <-ctx.Done():
			logger.Debug("worker stopping", "reason", ctx.Err(), "processed", processed)
			return
		default:
		}

		results <- d.process(ctx, logger, id, client, job, fn)
		processed++
	}
	logger.Debug("worker finished", "processed", processed)
}

func (d *Dispatcher) process(
	ctx context.Context,
	logger *log.Logger,
	id int,
	client services.Catalog,
	job models.Job,
	fn JobFunc,
) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Kind:   OutcomeFatal,
				Job:    job,
				Err:    fmt.Errorf("worker %d panicked: %v", id, r),
				Worker: id,
			}
			logger.Error("job panicked", "artist", job.Artist, "panic", r)
		}
	}()

	out, err := fn(ctx, client, job)
	out.Job, out.Worker, out.Err = job, id, err
	out.Kind = classify(ctx, err)

	switch out.Kind {
	case OutcomeNotFound:
		logger.Debug("artist not found", "artist", job.Artist)
	case OutcomeFatal:
		logger.Error("job failed", "artist", job.Artist, "error", err)
	case OutcomeCancelled:
		logger.Debug("job cancelled", "artist", job.Artist)
	}
	return out
}

func classify(ctx context.Context, err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, shared.ErrArtistNotFound):
		return OutcomeNotFound
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return OutcomeCancelled
	default:
		return OutcomeFatal
	}
}

// Package tasks reconciles a local music library against the catalog with real-time progress reporting.
//
// # Core Operations
//
// [Reconciler] exposes two operations:
//
//  1. [Reconciler.Run] : missing albums per artist
//     - Builds one [models.Job] per artist in the library
//     - Resolves the artist, lists its canonical albums, fuzzy-matches owned names
//     - Hands every non-empty [models.MissingReport] to the [Sink]
//
//  2. [Reconciler.Latest] : most recent album per artist
//     - Resolves each artist and picks the album with the latest release date
//
// # Worker Pool
//
// [Dispatcher] fills a buffered channel with every job and closes it, then starts a fixed number of workers
// that range over it. Each worker builds its own catalog client through a [services.CatalogFactory] and
// closes it when it stops. A WaitGroup closes the results channel once all workers have returned.
//
// Every job ends in a tagged [Outcome]:
//   - [OutcomeOK] : report produced
//   - [OutcomeNotFound] : [shared.ErrArtistNotFound], recovered by the worker, which keeps going
//   - [OutcomeFatal] : anything else, including a recovered panic
//   - [OutcomeCancelled] : the run context ended mid-job
//
// # Failure Policy
//
// By default a fatal job is reported to [Sink.Failure] and the run continues with the remaining jobs.
// With FailFast the first fatal job cancels the run. Either way the run returns an error wrapping
// [shared.ErrRunFailed] so the CLI can exit non-zero.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
package tasks

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/core"
)

// EmbedderFactory builds the embedder owned by one worker. It is called at
// most once per worker, on the worker's first transcript. An error or panic
// from the factory aborts the run with ErrWorkerInit.
type EmbedderFactory func(ctx context.Context) (ai.Embedder, error)

// SharedEmbedder returns a factory that hands every worker the same embedder.
// The embedder must be safe for concurrent use.
func SharedEmbedder(embedder ai.Embedder) EmbedderFactory {
	return func(context.Context) (ai.Embedder, error) {
		return embedder, nil
	}
}

// UnitFailure records why one transcript could not be chunked.
type UnitFailure struct {
	TranscriptID uuid.UUID
	Err          error
}

func (f UnitFailure) Error() string {
	return fmt.Sprintf("transcript %s: %v", f.TranscriptID, f.Err)
}

func (f UnitFailure) Unwrap() error {
	return f.Err
}

// BatchError reports the units of a run that failed. The transcripts that
// succeeded are returned next to it.
type BatchError struct {
	Failures []UnitFailure
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		return "1 transcript failed: " + e.Failures[0].Error()
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%d transcripts failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every unit error to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

type unitResult struct {
	transcript *core.Transcript
	err        error
	fatal      bool
}

// Driver chunks transcripts in parallel on a bounded worker pool.
type Driver struct {
	newEmbedder EmbedderFactory
	cfg         settings
	logger      *slog.Logger
}

// NewDriver creates a Driver whose workers obtain embedders from newEmbedder.
func NewDriver(newEmbedder EmbedderFactory, opts ...Option) (*Driver, error) {
	if newEmbedder == nil {
		return nil, ErrEmbedderFactoryRequired
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Driver{
		newEmbedder: newEmbedder,
		cfg:         cfg,
		logger:      cfg.logger.With("component", "chunk-driver"),
	}, nil
}

// NumWorkers returns the configured worker ceiling.
func (d *Driver) NumWorkers() int {
	return d.cfg.numWorkers
}

// Run chunks every transcript, writing each one's chunks onto it, and
// returns the transcripts in completion order.
//
// At most NumWorkers workers run at once, and never more than there are
// transcripts. If any unit fails, the successful transcripts are returned
// together with a *BatchError listing the failures. A worker that cannot
// build its embedder aborts the whole run with ErrWorkerInit and no results.
func (d *Driver) Run(ctx context.Context, transcripts []*core.Transcript) ([]*core.Transcript, error) {
	if len(transcripts) == 0 {
		return []*core.Transcript{}, nil
	}

	workers := min(d.cfg.numWorkers, len(transcripts))
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	jobs := make(chan *core.Transcript, len(transcripts))
	for _, t := range transcripts {
		jobs <- t
	}
	close(jobs)

	results := make(chan unitResult, len(transcripts))

	var wg sync.WaitGroup
	for i := range workers {
		wc := newWorkerContext(i, d.newEmbedder, &d.cfg)
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			wc.run(runCtx, jobs, results)
		}); err != nil {
			wg.Done()
			if i == 0 {
				return nil, err
			}
			// The workers already running drain the queue.
			d.logger.Warn("could not start worker", "worker", i, "err", err)
			break
		}
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var progress *ProgressTracker
	if d.cfg.progress != nil {
		progress = NewProgressTracker(d.cfg.progress, len(transcripts), d.cfg.progressInterval)
		progress.Start()
	}

	d.logger.Info("chunking transcripts", "count", len(transcripts), "workers", workers)

	out := make([]*core.Transcript, 0, len(transcripts))
	var (
		failures []UnitFailure
		fatalErr error
	)
	for res := range results {
		if progress != nil {
			progress.Done(res.err != nil)
		}
		if res.err == nil {
			out = append(out, res.transcript)
			continue
		}
		if res.fatal {
			if fatalErr == nil {
				fatalErr = res.err
				cancel(res.err)
			}
			continue
		}
		failures = append(failures, UnitFailure{TranscriptID: res.transcript.ID, Err: res.err})
		d.logger.Warn("failed to chunk transcript", "transcript", res.transcript.ID, "company", res.transcript.Company, "err", res.err)
		if d.cfg.abortOnError {
			cancel(res.err)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if fatalErr != nil {
		d.logger.Error("chunking aborted", "err", fatalErr)
		return nil, fatalErr
	}
	if accounted := len(out) + len(failures); accounted != len(transcripts) {
		err := fmt.Errorf("%w: %d of %d transcripts unaccounted for", ErrLostUnits, len(transcripts)-accounted, len(transcripts))
		d.logger.Error("chunking incomplete", "err", err)
		return nil, err
	}

	d.logger.Info("chunking finished", "succeeded", len(out), "failed", len(failures))
	if len(failures) > 0 {
		return out, &BatchError{Failures: failures}
	}
	return out, nil
}

// SortByInput reorders results in place to follow the order of inputs.
// Transcripts missing from inputs are moved to the end.
func SortByInput(results, inputs []*core.Transcript) {
	pos := make(map[uuid.UUID]int, len(inputs))
	for i, t := range inputs {
		pos[t.ID] = i
	}
	index := func(t *core.Transcript) int {
		if i, ok := pos[t.ID]; ok {
			return i
		}
		return len(inputs)
	}
	slices.SortStableFunc(results, func(a, b *core.Transcript) int {
		return index(a) - index(b)
	})
}

// IsUnitFailure reports whether err carries per-unit failures rather than a
// run-level error.
func IsUnitFailure(err error) bool {
	var batch *BatchError
	return errors.As(err, &batch)
}

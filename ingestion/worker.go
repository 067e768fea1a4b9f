package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/earncall/chunking"
	"github.com/poiesic/earncall/core"
)

// workerContext is the state owned by one worker goroutine. The embedder and
// chunker are built on the first unit and reused for every later one. Only
// the owning goroutine touches it.
type workerContext struct {
	id          int
	newEmbedder EmbedderFactory
	cfg         *settings
	chunker     *chunking.Chunker
	initErr     error
	units       int
	logger      *slog.Logger
}

func newWorkerContext(id int, newEmbedder EmbedderFactory, cfg *settings) *workerContext {
	return &workerContext{
		id:          id,
		newEmbedder: newEmbedder,
		cfg:         cfg,
		logger:      cfg.logger.With("component", "chunk-worker", "worker", id),
	}
}

// ensureChunker builds the embedder and chunker on first use. The factory
// runs at most once: a failed or panicking init is remembered and returned
// for every later unit.
func (w *workerContext) ensureChunker(ctx context.Context) (_ *chunking.Chunker, err error) {
	if w.chunker != nil {
		return w.chunker, nil
	}
	if w.initErr != nil {
		return nil, w.initErr
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("recovered panic while initializing worker", "panic", r)
			err = fmt.Errorf("%w: worker %d: %w: %v", ErrWorkerInit, w.id, ErrUnitPanic, r)
		}
		if err != nil {
			w.initErr = err
		}
	}()

	embedder, err := w.newEmbedder(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", ErrWorkerInit, w.id, err)
	}
	chunker, err := chunking.NewChunker(embedder, chunking.WithConfig(w.cfg.chunking))
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", ErrWorkerInit, w.id, err)
	}

	w.logger.Debug("initialized worker", "chunking", chunker.Config())
	w.chunker = chunker
	return chunker, nil
}

// run consumes jobs until the queue is drained. Once ctx is done the
// remaining jobs are reported as failed with the cancellation cause.
func (w *workerContext) run(ctx context.Context, jobs <-chan *core.Transcript, results chan<- unitResult) {
	for t := range jobs {
		if ctx.Err() != nil {
			results <- unitResult{transcript: t, err: context.Cause(ctx)}
			continue
		}

		chunker, err := w.ensureChunker(ctx)
		if err != nil {
			results <- unitResult{transcript: t, err: err, fatal: true}
			continue
		}

		results <- w.process(ctx, chunker, t)
	}
	w.logger.Debug("worker finished", "units", w.units)
}

// process chunks a single transcript under its own context.
func (w *workerContext) process(ctx context.Context, chunker *chunking.Chunker, t *core.Transcript) (res unitResult) {
	res.transcript = t

	unitCtx := ctx
	if w.cfg.unitTimeout > 0 {
		var cancel context.CancelFunc
		unitCtx, cancel = context.WithTimeout(ctx, w.cfg.unitTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("recovered panic while chunking", "transcript", t.ID, "panic", r)
			res.err = fmt.Errorf("%w: %v", ErrUnitPanic, r)
		}
	}()

	start := time.Now()
	if w.cfg.unitHook != nil {
		if err := w.cfg.unitHook(unitCtx, t); err != nil {
			res.err = err
			return res
		}
	}

	chunks, err := chunker.Chunk(unitCtx, t.Text)
	if err != nil {
		res.err = err
		return res
	}

	t.Chunks = chunks
	w.units++
	w.logger.Debug("chunked transcript",
		"transcript", t.ID,
		"company", t.Company,
		"chunks", len(chunks),
		"elapsed", time.Since(start))
	return res
}

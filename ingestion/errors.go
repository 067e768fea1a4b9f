package ingestion

import "errors"

var (
	// ErrEmbedderFactoryRequired is returned when no embedder factory is provided.
	ErrEmbedderFactoryRequired = errors.New("embedder factory required")

	// ErrInvalidRow is returned when a dataset row lacks a required field or
	// carries a value of the wrong type.
	ErrInvalidRow = errors.New("invalid row")

	// ErrWorkerInit is returned when a worker cannot build its embedder or
	// chunker. It indicates a configuration problem and aborts the run.
	ErrWorkerInit = errors.New("worker initialization failed")

	// ErrLostUnits is returned when a run ends without a result for every
	// transcript, which happens only if a worker exits early.
	ErrLostUnits = errors.New("transcripts lost by worker pool")

	// ErrUnitPanic is wrapped into the failure of a unit that panicked.
	ErrUnitPanic = errors.New("unit panicked")
)

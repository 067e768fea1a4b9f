package ingestion

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/earncall/chunking"
	"github.com/poiesic/earncall/core"
)

// DefaultNumWorkers is the worker count used when none is configured.
const DefaultNumWorkers = 50

// settings is shared by Driver and Pipeline.
type settings struct {
	numWorkers       int
	chunking         chunking.Config
	unitTimeout      time.Duration
	abortOnError     bool
	progress         io.Writer
	progressInterval int
	fieldKeys        FieldKeys
	companies        []string
	logger           *slog.Logger

	// unitHook runs before each unit is chunked. Tests use it to inject
	// failures and panics.
	unitHook func(ctx context.Context, t *core.Transcript) error
}

func defaultSettings() settings {
	return settings{
		numWorkers:       DefaultNumWorkers,
		chunking:         chunking.DefaultConfig(),
		progressInterval: 1,
		fieldKeys:        DefaultFieldKeys(),
		logger:           slog.Default(),
	}
}

// Option configures a Driver or Pipeline.
type Option func(*settings) error

// WithNumWorkers sets the maximum number of concurrent workers.
// Values below 1 are treated as 1. Default is 50.
func WithNumWorkers(n int) Option {
	return func(s *settings) error {
		if n < 1 {
			n = 1
		}
		s.numWorkers = n
		return nil
	}
}

// WithMinSentences sets the minimum sentence count per chunk.
func WithMinSentences(n int) Option {
	return func(s *settings) error {
		s.chunking.MinSentences = n
		return nil
	}
}

// WithMaxChunkChars sets the soft length ceiling per chunk.
func WithMaxChunkChars(n int) Option {
	return func(s *settings) error {
		s.chunking.MaxChunkChars = n
		return nil
	}
}

// WithThreshold sets the similarity threshold handed to each chunker.
func WithThreshold(t float64) Option {
	return func(s *settings) error {
		s.chunking.SimilarityThreshold = t
		return nil
	}
}

// WithUnitTimeout bounds the time spent on a single transcript.
// Zero disables the bound.
func WithUnitTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d < 0 {
			d = 0
		}
		s.unitTimeout = d
		return nil
	}
}

// WithAbortOnError cancels the remaining units as soon as one fails.
// By default failures are collected and the other units continue.
func WithAbortOnError(abort bool) Option {
	return func(s *settings) error {
		s.abortOnError = abort
		return nil
	}
}

// WithProgress writes progress lines to w, reporting every interval
// completed transcripts. A nil writer disables reporting.
func WithProgress(w io.Writer, interval int) Option {
	return func(s *settings) error {
		if interval < 1 {
			interval = 1
		}
		s.progress = w
		s.progressInterval = interval
		return nil
	}
}

// WithFieldKeys sets the row field names read by Pipeline.
func WithFieldKeys(keys FieldKeys) Option {
	return func(s *settings) error {
		s.fieldKeys = keys.withDefaults()
		return nil
	}
}

// WithCompanies restricts Pipeline output to the listed companies.
func WithCompanies(companies ...string) Option {
	return func(s *settings) error {
		s.companies = companies
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

func applyOptions(opts []Option) (settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

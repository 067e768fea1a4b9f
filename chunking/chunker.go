package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/core"
)

const (
	// DefaultMinSentences is the minimum number of sentences per chunk.
	DefaultMinSentences = 3
	// DefaultMaxChunkChars is the soft length ceiling of a chunk.
	DefaultMaxChunkChars = 500
	// DefaultSimilarityThreshold is reserved for semantic grouping.
	DefaultSimilarityThreshold = 0.7
)

// Config controls chunk boundaries.
type Config struct {
	// MinSentences is the minimum sentence count before a chunk may be
	// flushed by length. Values below 1 are treated as 1.
	MinSentences int

	// MaxChunkChars is the soft ceiling on a chunk's running length in code
	// points. A chunk is flushed once its length exceeds this value and it
	// holds at least MinSentences sentences, so chunks may overshoot it.
	MaxChunkChars int

	// SimilarityThreshold is reserved for semantic grouping and is not used
	// by the length-bounded policy.
	SimilarityThreshold float64
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{
		MinSentences:        DefaultMinSentences,
		MaxChunkChars:       DefaultMaxChunkChars,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// Option configures a Chunker.
type Option func(*Config)

// WithMinSentences sets the minimum sentence count per chunk.
func WithMinSentences(n int) Option {
	return func(c *Config) {
		c.MinSentences = n
	}
}

// WithMaxChunkChars sets the soft length ceiling per chunk.
func WithMaxChunkChars(n int) Option {
	return func(c *Config) {
		c.MaxChunkChars = n
	}
}

// WithSimilarityThreshold sets the reserved similarity threshold.
func WithSimilarityThreshold(t float64) Option {
	return func(c *Config) {
		c.SimilarityThreshold = t
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

func (c *Config) normalize() {
	if c.MinSentences < 1 {
		c.MinSentences = 1
	}
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = DefaultMaxChunkChars
	}
}

// Chunker groups the sentences of a text into chunks.
// A Chunker is not safe for concurrent use; each worker owns its own.
type Chunker struct {
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// NewChunker creates a Chunker bound to embedder.
func NewChunker(embedder ai.Embedder, opts ...Option) (*Chunker, error) {
	if embedder == nil {
		return nil, ErrNilEmbedder
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	return &Chunker{
		embedder: embedder,
		config:   cfg,
		logger:   slog.Default().With("component", "chunker"),
	}, nil
}

// Config returns the effective configuration.
func (c *Chunker) Config() Config {
	return c.config
}

// Embedder returns the embedder the chunker was built with.
func (c *Chunker) Embedder() ai.Embedder {
	return c.embedder
}

// Chunk splits text into sentences and groups them into chunks.
//
// Empty or whitespace-only text yields zero chunks. Text with fewer
// sentences than MinSentences yields a single chunk. The context is checked
// between sentences; a cancelled or expired context aborts with ctx.Err().
func (c *Chunker) Chunk(ctx context.Context, text string) ([]core.Chunk, error) {
	if !utf8.ValidString(text) {
		return nil, ErrMalformedText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return []core.Chunk{}, nil
	}

	// prefix[k] is the code point length of the first k sentences joined
	// with single spaces.
	prefix := make([]int, len(sentences)+1)
	for i, s := range sentences {
		prefix[i+1] = prefix[i] + utf8.RuneCountInString(s)
		if i > 0 {
			prefix[i+1]++
		}
	}

	var (
		chunks  []core.Chunk
		current []string
		curLen  int
		last    = len(sentences) - 1
	)
	for i, s := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current = append(current, s)
		curLen += utf8.RuneCountInString(s)

		if len(current) >= c.config.MinSentences && (curLen > c.config.MaxChunkChars || i == last) {
			first := i - len(current) + 1
			chunks = append(chunks, newChunk(current, prefix, first, i+1))
			current = nil
			curLen = 0
		}
	}
	if len(current) > 0 {
		first := len(sentences) - len(current)
		chunks = append(chunks, newChunk(current, prefix, first, len(sentences)))
	}

	c.logger.Debug("chunked text", "sentences", len(sentences), "chunks", len(chunks))
	return chunks, nil
}

// newChunk builds a chunk from sentences [first, end) of the transcript.
// StartIndex is the length of the joined text preceding the chunk, so for
// every chunk but the first it points at the separating space.
func newChunk(group []string, prefix []int, first, end int) core.Chunk {
	return core.Chunk{
		Text: strings.Join(group, " "),
		Metadata: core.ChunkMetadata{
			StartIndex:    prefix[first],
			EndIndex:      prefix[end],
			SentenceCount: len(group),
		},
	}
}

// String implements fmt.Stringer for logging.
func (c Config) String() string {
	return fmt.Sprintf("min_sentences=%d max_chunk_chars=%d threshold=%.2f",
		c.MinSentences, c.MaxChunkChars, c.SimilarityThreshold)
}

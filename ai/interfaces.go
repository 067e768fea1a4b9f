package ai

import (
	"context"

	"github.com/poiesic/earncall/taxonomy"
)

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// PromptInput is one named value listed in the Inputs section of the
// extraction prompt, such as the main entity or publication date.
type PromptInput struct {
	Key   string
	Value string
}

// StatementExtractor extracts labelled statements from a transcript chunk.
// Implementations must be thread-safe for concurrent use.
type StatementExtractor interface {
	// ExtractStatements returns the atomic statements found in chunk, each
	// labelled with a statement type and a temporal type from the taxonomy.
	// Statements with labels outside the taxonomy are dropped.
	// Returns an empty slice if nothing was extracted.
	ExtractStatements(ctx context.Context, chunk string, inputs []PromptInput) ([]taxonomy.Statement, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// StatementExtractor returns the statement extraction service.
	StatementExtractor() StatementExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}

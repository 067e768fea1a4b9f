package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/taxonomy"
)

// MockStatementExtractor is a test double for ai.StatementExtractor.
type MockStatementExtractor struct {
	// ExtractFunc is called by ExtractStatements if set.
	// If nil, every sentence of the chunk becomes a FACT/STATIC statement.
	ExtractFunc func(ctx context.Context, chunk string, inputs []ai.PromptInput) ([]taxonomy.Statement, error)

	callCount atomic.Int64
}

// NewMockStatementExtractor creates a mock extractor with default behavior.
func NewMockStatementExtractor() *MockStatementExtractor {
	return &MockStatementExtractor{}
}

// ExtractStatements returns one statement per sentence unless ExtractFunc is set.
func (m *MockStatementExtractor) ExtractStatements(ctx context.Context, chunk string, inputs []ai.PromptInput) ([]taxonomy.Statement, error) {
	m.callCount.Add(1)

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, chunk, inputs)
	}

	sentences := strings.FieldsFunc(chunk, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]taxonomy.Statement, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, taxonomy.Statement{
			Statement:     s + ".",
			StatementType: taxonomy.Fact,
			TemporalType:  taxonomy.Static,
		})
	}
	return out, nil
}

// CallCount returns the number of times ExtractStatements was called.
func (m *MockStatementExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockStatementExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractFunc = nil
}

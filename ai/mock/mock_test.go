package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "Revenue grew 10%.")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "Revenue grew 10%.")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "Margins held steady.")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, m.CallCount())

	var sumSquares float64
	for _, v := range a {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)
}

func TestMockEmbedder_Batch(t *testing.T) {
	m := &MockEmbedder{Dimensions: 8}
	vectors, err := m.EmbedTexts(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 8)

	single, err := m.EmbedText(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, vectors[1], single)
}

func TestMockEmbedder_Failing(t *testing.T) {
	boom := errors.New("boom")
	m := NewFailingEmbedder(boom)

	_, err := m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	_, err = m.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	_, err = m.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}

func TestMockStatementExtractor_Default(t *testing.T) {
	m := NewMockStatementExtractor()
	statements, err := m.ExtractStatements(context.Background(), "Revenue grew. Costs fell!  ", nil)
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "Revenue grew.", statements[0].Statement)
	assert.Equal(t, "Costs fell.", statements[1].Statement)
	for _, s := range statements {
		assert.NoError(t, s.Validate())
	}
	assert.Equal(t, 1, m.CallCount())
}

func TestMockProvider(t *testing.T) {
	embedder := NewMockEmbedder()
	extractor := NewMockStatementExtractor()
	extractor.ExtractFunc = func(ctx context.Context, chunk string, _ []ai.PromptInput) ([]taxonomy.Statement, error) {
		return []taxonomy.Statement{{Statement: chunk, StatementType: taxonomy.Opinion, TemporalType: taxonomy.Dynamic}}, nil
	}

	provider := NewMockProviderWithServices(embedder, extractor)
	defer provider.Close()

	assert.Same(t, embedder, provider.Embedder())
	statements, err := provider.StatementExtractor().ExtractStatements(context.Background(), "We are upbeat", nil)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, taxonomy.Opinion, statements[0].StatementType)
	assert.Same(t, extractor, provider.(*MockProvider).GetMockExtractor())
}

package chunking

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/earncall/ai/mock"
	"github.com/poiesic/earncall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker(t *testing.T, opts ...Option) *Chunker {
	t.Helper()
	c, err := NewChunker(mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)
	return c
}

func sentenceTotal(chunks []core.Chunk) int {
	total := 0
	for _, c := range chunks {
		total += c.Metadata.SentenceCount
	}
	return total
}

func TestNewChunker(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := newTestChunker(t)
		assert.Equal(t, DefaultConfig(), c.Config())
		assert.NotNil(t, c.Embedder())
	})

	t.Run("options", func(t *testing.T) {
		c := newTestChunker(t, WithMinSentences(5), WithMaxChunkChars(200), WithSimilarityThreshold(0.9))
		assert.Equal(t, Config{MinSentences: 5, MaxChunkChars: 200, SimilarityThreshold: 0.9}, c.Config())
	})

	t.Run("min sentences coerced to one", func(t *testing.T) {
		c := newTestChunker(t, WithMinSentences(0))
		assert.Equal(t, 1, c.Config().MinSentences)

		c = newTestChunker(t, WithMinSentences(-4))
		assert.Equal(t, 1, c.Config().MinSentences)
	})

	t.Run("non-positive max falls back", func(t *testing.T) {
		c := newTestChunker(t, WithConfig(Config{MinSentences: 2}))
		assert.Equal(t, DefaultMaxChunkChars, c.Config().MaxChunkChars)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewChunker(nil)
		assert.ErrorIs(t, err, ErrNilEmbedder)
	})
}

func TestChunk_EmptyText(t *testing.T) {
	c := newTestChunker(t)

	for _, text := range []string{"", "   ", "...", "\n\n"} {
		chunks, err := c.Chunk(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, chunks, "text %q", text)
		assert.NotNil(t, chunks)
	}
}

func TestChunk_SingleSentenceBelowMinimum(t *testing.T) {
	c := newTestChunker(t, WithMinSentences(3))

	chunks, err := c.Chunk(context.Background(), "Revenue grew fifteen percent.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Revenue grew fifteen percent", chunks[0].Text)
	assert.Equal(t, core.ChunkMetadata{StartIndex: 0, EndIndex: 28, SentenceCount: 1}, chunks[0].Metadata)
}

func TestChunk_ThreeShortSentences(t *testing.T) {
	c := newTestChunker(t, WithMinSentences(2), WithMaxChunkChars(500))

	chunks, err := c.Chunk(context.Background(), "A happened. B happened. C happened.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A happened B happened C happened", chunks[0].Text)
	assert.Equal(t, 3, chunks[0].Metadata.SentenceCount)
	assert.Equal(t, 0, chunks[0].Metadata.StartIndex)
	assert.Equal(t, 32, chunks[0].Metadata.EndIndex)
}

func TestChunk_OffsetsOverJoinedText(t *testing.T) {
	c := newTestChunker(t, WithMinSentences(1), WithMaxChunkChars(5))

	chunks, err := c.Chunk(context.Background(), "Alpha one. Beta two. Gamma three. Delta four.")
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	want := []core.ChunkMetadata{
		{StartIndex: 0, EndIndex: 9, SentenceCount: 1},
		{StartIndex: 9, EndIndex: 18, SentenceCount: 1},
		{StartIndex: 18, EndIndex: 30, SentenceCount: 1},
		{StartIndex: 30, EndIndex: 41, SentenceCount: 1},
	}
	for i, chunk := range chunks {
		assert.Equal(t, want[i], chunk.Metadata, "chunk %d", i)
	}

	// Offsets index the sentences joined with single spaces.
	joined := strings.Join(SplitSentences("Alpha one. Beta two. Gamma three. Delta four."), " ")
	assert.Equal(t, len(joined), chunks[3].Metadata.EndIndex)
	assert.Equal(t, " Delta four", joined[chunks[3].Metadata.StartIndex:chunks[3].Metadata.EndIndex])
}

func TestChunk_TrailingRemainder(t *testing.T) {
	c := newTestChunker(t, WithMinSentences(2), WithMaxChunkChars(10))

	chunks, err := c.Chunk(context.Background(), "one two three. four five six. seven.")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "one two three four five six", chunks[0].Text)
	assert.Equal(t, core.ChunkMetadata{StartIndex: 0, EndIndex: 27, SentenceCount: 2}, chunks[0].Metadata)

	assert.Equal(t, "seven", chunks[1].Text)
	assert.Equal(t, core.ChunkMetadata{StartIndex: 27, EndIndex: 33, SentenceCount: 1}, chunks[1].Metadata)
}

func TestChunk_LengthCountedInCodePoints(t *testing.T) {
	c := newTestChunker(t, WithMinSentences(1), WithMaxChunkChars(1))

	chunks, err := c.Chunk(context.Background(), "日本語です。 もう一つ. Ünïcödé!")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// The ideographic full stop is not a terminator.
	assert.Equal(t, "日本語です。 もう一つ", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Metadata.StartIndex)
	assert.Equal(t, 11, chunks[0].Metadata.EndIndex)
	assert.Equal(t, 11, chunks[1].Metadata.StartIndex)
	assert.Equal(t, 19, chunks[1].Metadata.EndIndex)
}

func TestChunk_CoverageAndMinimum(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("Operating income for the segment rose compared with the prior year period")
		if i%7 == 0 {
			b.WriteString(" and management reiterated its full year outlook for gross margin")
		}
		b.WriteString(". ")
	}
	text := b.String()
	total := len(SplitSentences(text))

	for _, minSentences := range []int{1, 2, 3, 5, 8} {
		for _, maxChars := range []int{50, 200, 500, 5000} {
			c := newTestChunker(t, WithMinSentences(minSentences), WithMaxChunkChars(maxChars))

			chunks, err := c.Chunk(context.Background(), text)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			assert.Equal(t, total, sentenceTotal(chunks), "min=%d max=%d", minSentences, maxChars)
			for i, chunk := range chunks[:len(chunks)-1] {
				assert.GreaterOrEqual(t, chunk.Metadata.SentenceCount, minSentences, "chunk %d min=%d max=%d", i, minSentences, maxChars)
			}
			for i := 1; i < len(chunks); i++ {
				assert.Equal(t, chunks[i-1].Metadata.EndIndex, chunks[i].Metadata.StartIndex)
			}
		}
	}
}

func TestChunk_MalformedText(t *testing.T) {
	c := newTestChunker(t)

	_, err := c.Chunk(context.Background(), "Revenue \xff grew.")
	assert.ErrorIs(t, err, ErrMalformedText)
}

func TestChunk_CancelledContext(t *testing.T) {
	c := newTestChunker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Chunk(ctx, "One. Two. Three.")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChunk_DoesNotCallEmbedder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	c, err := NewChunker(embedder)
	require.NoError(t, err)

	_, err = c.Chunk(context.Background(), "One. Two. Three. Four.")
	require.NoError(t, err)
	assert.Zero(t, embedder.CallCount())
}

package openai

import (
	"context"
	"testing"

	"github.com/poiesic/earncall/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_MissingCredential(t *testing.T) {
	_, err := NewProvider(ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	_, err = NewEmbedder(ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	_, err = NewStatementExtractor(ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
}

func TestNewProvider(t *testing.T) {
	config := ai.NewConfig(ai.WithAPIKey("test-key"), ai.WithHost("http://localhost:8080/"))

	provider, err := NewProvider(config)
	require.NoError(t, err)
	defer provider.Close()

	guarded, ok := provider.Embedder().(*ai.GuardedEmbedder)
	require.True(t, ok)
	assert.Equal(t, ai.ErrorPolicyDegrade, guarded.Policy())
	assert.NotNil(t, provider.StatementExtractor())
	assert.Equal(t, "http://localhost:8080", config.EmbeddingHost)

	snapshot := provider.(*Provider).Config()
	assert.Equal(t, "test-key", snapshot.APIKey)
	assert.Equal(t, config.EmbeddingModel, snapshot.EmbeddingModel)
}

func TestNewEmbedder_Guarded(t *testing.T) {
	config := ai.NewConfig(ai.WithAPIKey("test-key"), ai.WithErrorPolicy(ai.ErrorPolicyPropagate))

	embedder, err := NewEmbedder(config)
	require.NoError(t, err)
	guarded, ok := embedder.(*ai.GuardedEmbedder)
	require.True(t, ok)
	assert.Equal(t, ai.ErrorPolicyPropagate, guarded.Policy())
}

func TestEmbedderFactory(t *testing.T) {
	_, err := EmbedderFactory(ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	config := ai.NewConfig(ai.WithAPIKey("test-key"), ai.WithErrorPolicy(ai.ErrorPolicyPropagate))
	factory, err := EmbedderFactory(config)
	require.NoError(t, err)

	first, err := factory(context.Background())
	require.NoError(t, err)
	second, err := factory(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	guarded, ok := first.(*ai.GuardedEmbedder)
	require.True(t, ok)
	assert.Equal(t, ai.ErrorPolicyPropagate, guarded.Policy())

	// Later changes to the caller's config do not reach new embedders.
	config.APIKey = ""
	_, err = factory(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = factory(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

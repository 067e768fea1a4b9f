package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// GuardedEmbedder applies an ErrorPolicy to another Embedder.
//
// Under ErrorPolicyDegrade a failed call is logged at warn level and answered
// with zero vectors of the configured dimension and a nil error. A degraded
// vector cannot be told apart from a genuine all-zero embedding by the
// caller. Under ErrorPolicyPropagate the failure is returned wrapped in
// ErrRemoteCall.
//
// Cancellation of ctx is never degraded; ctx.Err() is returned as is.
type GuardedEmbedder struct {
	inner      Embedder
	policy     ErrorPolicy
	dimensions int
	logger     *slog.Logger
}

// NewGuardedEmbedder wraps inner. A non-positive dimension falls back to
// DefaultEmbeddingDimensions and an empty policy to ErrorPolicyDegrade.
func NewGuardedEmbedder(inner Embedder, policy ErrorPolicy, dimensions int) *GuardedEmbedder {
	if dimensions < 1 {
		dimensions = DefaultEmbeddingDimensions
	}
	if policy == "" {
		policy = ErrorPolicyDegrade
	}
	return &GuardedEmbedder{
		inner:      inner,
		policy:     policy,
		dimensions: dimensions,
		logger:     slog.Default().With("component", "guarded-embedder"),
	}
}

// Policy returns the active error policy.
func (g *GuardedEmbedder) Policy() ErrorPolicy {
	return g.policy
}

// EmbedText embeds a single text under the guard's policy.
func (g *GuardedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vec, err := g.inner.EmbedText(ctx, text)
	if err == nil {
		return vec, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if g.policy == ErrorPolicyPropagate {
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	g.logger.Warn("embedding failed, substituting zero vector", "length", len(text), "dimensions", g.dimensions, "err", err)
	return make([]float32, g.dimensions), nil
}

// EmbedTexts embeds a batch under the guard's policy. A degraded batch
// yields one zero vector per input.
func (g *GuardedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := g.inner.EmbedTexts(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if g.policy == ErrorPolicyPropagate {
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	g.logger.Warn("batch embedding failed, substituting zero vectors", "count", len(texts), "dimensions", g.dimensions, "err", err)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, g.dimensions)
	}
	return out, nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/poiesic/earncall/ai"
)

// Provider bundles the guarded embedder and the statement extractor that
// share one validated configuration.
type Provider struct {
	config    ai.Config
	embedder  *ai.GuardedEmbedder
	extractor *StatementExtractor
	logger    *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider validates config and builds both services from it. Any
// construction failure is a configuration error and nothing is returned.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	extractor, err := newStatementExtractor(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel,
		"classifier_host", config.ClassifierHost,
		"classifier_model", config.ClassifierModel,
		"on_embedding_error", config.OnEmbeddingError,
	)

	return &Provider{
		config:    *config,
		embedder:  ai.NewGuardedEmbedder(embedder, config.OnEmbeddingError, config.EmbeddingDimensions),
		extractor: extractor,
		logger:    logger,
	}, nil
}

// Embedder returns the embedder wrapped in the configured error policy.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *Provider) StatementExtractor() ai.StatementExtractor {
	return p.extractor
}

// Config returns a copy of the configuration the provider was built with.
func (p *Provider) Config() ai.Config {
	return p.config
}

// Close is a no-op; the HTTP clients hold no resources that need releasing.
func (p *Provider) Close() error {
	p.logger.Debug("provider closed", "embedding_model", p.config.EmbeddingModel)
	return nil
}

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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/taxonomy"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// StatementExtractor implements ai.StatementExtractor using an
// OpenAI-compatible chat API.
type StatementExtractor struct {
	client      llms.Model
	definitions []taxonomy.Section
	schema      string
	maxRetries  int
	newBackOff  func() backoff.BackOff
	logger      *slog.Logger
}

// statementEnvelope is the object form some models wrap the array in.
type statementEnvelope struct {
	Statements []taxonomy.Statement `json:"statements"`
}

// newStatementExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newStatementExtractor(config *ai.Config) (*StatementExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidConfig, err)
	}
	return newStatementExtractorWithModel(client, config.MaxRetries), nil
}

func newStatementExtractorWithModel(client llms.Model, maxRetries int) *StatementExtractor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &StatementExtractor{
		client:      client,
		definitions: taxonomy.Definitions(),
		schema:      taxonomy.StatementSchema,
		maxRetries:  maxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: slog.Default().With("component", "openai-extractor"),
	}
}

// NewStatementExtractor creates a statement extractor using the provided configuration.
//
// Returns ai.StatementExtractor interface to enforce abstraction.
func NewStatementExtractor(config *ai.Config) (ai.StatementExtractor, error) {
	return newStatementExtractor(config)
}

// ExtractStatements asks the model for the labelled statements in chunk.
// Malformed responses and failed calls are retried up to the configured
// number of times. Statements whose labels fall outside the taxonomy are
// dropped.
func (e *StatementExtractor) ExtractStatements(ctx context.Context, chunk string, inputs []ai.PromptInput) ([]taxonomy.Statement, error) {
	systemPrompt, err := RenderExtractionPrompt(inputs, e.definitions, e.schema)
	if err != nil {
		return nil, err
	}
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(normalizeChunk(chunk))},
		},
	}

	var parsed []taxonomy.Statement
	attempt := 0
	operation := func() error {
		attempt++
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			e.logger.Warn("failed to generate content", "attempt", attempt, "err", err)
			return fmt.Errorf("%w: %w", ai.ErrRemoteCall, err)
		}
		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			parsed = nil
			return nil
		}

		statements, err := parseStatements(response.Choices[0].Content)
		if err != nil {
			e.logger.Warn("error parsing extractor response", "attempt", attempt, "err", err)
			return err
		}
		parsed = statements
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(e.newBackOff(), uint64(e.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if ctx.Err() == nil {
			e.logger.Error("statement extraction failed", "attempts", attempt, "err", err)
		}
		return nil, err
	}

	valid := make([]taxonomy.Statement, 0, len(parsed))
	for _, s := range parsed {
		if err := s.Validate(); err != nil {
			e.logger.Debug("dropping statement", "statement", s.Statement, "err", err)
			continue
		}
		valid = append(valid, s)
	}
	e.logger.Debug("extracted statements", "total", len(parsed), "kept", len(valid))
	return valid, nil
}

// parseStatements decodes a model response holding either a bare array of
// statements or an object with a "statements" array.
func parseStatements(raw string) ([]taxonomy.Statement, error) {
	text := repairJSON(stripCodeFences(raw))
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ai.ErrMalformedResponse)
	}

	if trimmed[0] == '[' {
		var statements []taxonomy.Statement
		if err := json.Unmarshal(trimmed, &statements); err != nil {
			return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
		}
		return statements, nil
	}

	var envelope statementEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}
	return envelope.Statements, nil
}

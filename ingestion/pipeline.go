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


package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/earncall/core"
)

// Pipeline orchestrates transcript construction and parallel chunking.
type Pipeline struct {
	driver    *Driver
	fieldKeys FieldKeys
	companies []string
	logger    *slog.Logger
}

// NewPipeline creates a new pipeline. Options configure both row handling
// (WithFieldKeys, WithCompanies) and chunking (WithNumWorkers,
// WithMinSentences and the rest).
func NewPipeline(newEmbedder EmbedderFactory, opts ...Option) (*Pipeline, error) {
	driver, err := NewDriver(newEmbedder, opts...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		driver:    driver,
		fieldKeys: driver.cfg.fieldKeys,
		companies: driver.cfg.companies,
		logger:    driver.cfg.logger.With("component", "pipeline"),
	}, nil
}

// Driver returns the chunking driver used by the pipeline.
func (p *Pipeline) Driver() *Driver {
	return p.driver
}

// Process builds transcripts from rows and chunks them. The result is in
// completion order; see Driver.Run for error semantics.
func (p *Pipeline) Process(ctx context.Context, rows []Row) ([]*core.Transcript, error) {
	transcripts, err := BuildTranscripts(rows, p.fieldKeys, p.companies)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("built transcripts", "rows", len(rows), "kept", len(transcripts))
	return p.driver.Run(ctx, transcripts)
}

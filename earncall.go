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


// Package earncall wires a transcript store, the AI services and the
// chunking pipeline into a single Workspace.
package earncall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/ai/openai"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/dataset"
	"github.com/poiesic/earncall/ingestion"
	"github.com/poiesic/earncall/storage"
	"github.com/poiesic/earncall/storage/badger"
	"github.com/poiesic/earncall/storage/sqlite"
	"github.com/poiesic/earncall/taxonomy"
)

// Backend selects the storage implementation of a Workspace.
type Backend string

const (
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
)

var (
	// ErrUnknownBackend indicates a Backend value no store implements.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrNoProvider indicates an AI operation on a storage-only workspace.
	ErrNoProvider = errors.New("workspace has no AI provider")
)

type Workspace struct {
	store       storage.Store
	provider    ai.AIProvider
	newEmbedder ingestion.EmbedderFactory
	logger      *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	backend     Backend
	inMemory    bool
	aiConfig    *ai.Config
	provider    ai.AIProvider
	newEmbedder ingestion.EmbedderFactory
	noAI        bool
}

// WithBackend selects the storage backend. Default: BackendBadger.
func WithBackend(b Backend) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.backend = b
	}
}

// InMemory keeps all data in memory; the path given to Open is ignored.
func InMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
// Without it the configuration is read from the environment.
func WithAIConfig(cfg *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready AI provider, bypassing configuration.
func WithProvider(p ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = p
	}
}

// WithEmbedderFactory sets how pipeline workers obtain their embedders.
// By default each worker builds its own client from the AI configuration,
// or shares the provider's embedder when the provider was supplied with
// WithProvider.
func WithEmbedderFactory(f ingestion.EmbedderFactory) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.newEmbedder = f
	}
}

// StorageOnly opens the workspace without AI services. Operations that need
// them fail with ErrNoProvider.
func StorageOnly() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.noAI = true
	}
}

// Open opens the workspace stored at path.
func Open(path string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{backend: BackendBadger}
	for _, opt := range opts {
		opt(options)
	}

	store, err := openStore(path, options)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	newEmbedder := options.newEmbedder
	if provider == nil && !options.noAI {
		cfg := options.aiConfig
		if cfg == nil {
			if cfg, err = ai.ConfigFromEnv(); err != nil {
				store.Close()
				return nil, err
			}
		}
		if provider, err = openai.NewProvider(cfg); err != nil {
			store.Close()
			return nil, err
		}
		if newEmbedder == nil {
			factory, err := openai.EmbedderFactory(cfg)
			if err != nil {
				provider.Close()
				store.Close()
				return nil, err
			}
			newEmbedder = factory
		}
	}
	if newEmbedder == nil && provider != nil {
		newEmbedder = ingestion.SharedEmbedder(provider.Embedder())
	}

	return &Workspace{
		store:       store,
		provider:    provider,
		newEmbedder: newEmbedder,
		logger:      slog.Default().With("component", "workspace"),
	}, nil
}

func openStore(path string, options *workspaceOptions) (storage.Store, error) {
	switch options.backend {
	case BackendBadger:
		if options.inMemory {
			return badger.NewMemoryStore()
		}
		return badger.NewStore(path)
	case BackendSQLite:
		if options.inMemory {
			return sqlite.NewMemoryStore()
		}
		return sqlite.NewStore(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, options.backend)
}

// Close releases the AI provider and the store.
func (w *Workspace) Close() error {
	if w.provider != nil {
		if err := w.provider.Close(); err != nil {
			w.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := w.store.Close(); err != nil {
		w.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

func (w *Workspace) Store() storage.Store {
	return w.store
}

// Provider returns the AI provider, or nil for a storage-only workspace.
func (w *Workspace) Provider() ai.AIProvider {
	return w.provider
}

// NewPipeline creates a chunking pipeline. Each worker obtains its embedder
// from the workspace's embedder factory on its first transcript.
func (w *Workspace) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if w.newEmbedder == nil {
		return nil, ErrNoProvider
	}
	return ingestion.NewPipeline(w.newEmbedder, opts...)
}

// ImportTranscripts stores each transcript, creating companies on first
// sight. A transcript whose TranscriptKey matches one already stored, or one
// earlier in the same call, is not stored again; its existing record is
// returned in its place. Records are returned in input order.
func (w *Workspace) ImportTranscripts(ctx context.Context, transcripts []*core.Transcript) ([]*core.TranscriptRecord, error) {
	companies := map[string]*core.Company{}
	known := map[core.ID]*core.TranscriptRecord{}
	indexed := map[core.ID]bool{}
	records := make([]*core.TranscriptRecord, 0, len(transcripts))
	skipped := 0

	for _, t := range transcripts {
		company, err := w.ensureCompany(ctx, companies, t.Company)
		if err != nil {
			return records, err
		}
		if !indexed[company.Id] {
			if err := w.indexStoredTranscripts(ctx, company, known); err != nil {
				return records, err
			}
			indexed[company.Id] = true
		}

		key := core.TranscriptKey(company.Name, t.Date, t.Text)
		if existing, ok := known[key]; ok {
			w.logger.Debug("skipping duplicate transcript", "transcript", t.ID, "company", company.Name, "existing", existing.Id)
			records = append(records, existing)
			skipped++
			continue
		}

		record, err := w.store.InsertTranscript(ctx, &core.TranscriptRecord{
			CompanyId: company.Id,
			Date:      t.Date,
			Text:      t.Text,
		})
		if err != nil {
			return records, fmt.Errorf("import transcript %s: %w", t.ID, err)
		}
		known[key] = record
		records = append(records, record)
	}
	w.logger.Info("imported transcripts", "count", len(records)-skipped, "duplicates", skipped, "companies", len(companies))
	return records, nil
}

func (w *Workspace) indexStoredTranscripts(ctx context.Context, company *core.Company, known map[core.ID]*core.TranscriptRecord) error {
	stored, err := w.store.QueryTranscripts(ctx, storage.TranscriptFilter{CompanyId: company.Id})
	if err != nil {
		return fmt.Errorf("company %q: %w", company.Name, err)
	}
	for _, rec := range stored {
		known[core.TranscriptKey(company.Name, rec.Date, rec.Text)] = rec
	}
	return nil
}

// ImportPriceBars stores price history, creating companies on first sight.
func (w *Workspace) ImportPriceBars(ctx context.Context, records []dataset.PriceRecord) (int, error) {
	companies := map[string]*core.Company{}
	for i, rec := range records {
		company, err := w.ensureCompany(ctx, companies, rec.Company)
		if err != nil {
			return i, err
		}
		bar := rec.Bar
		bar.CompanyId = company.Id
		if _, err := w.store.InsertPriceBar(ctx, &bar); err != nil {
			return i, fmt.Errorf("import price bar %d: %w", i, err)
		}
	}
	w.logger.Info("imported price bars", "count", len(records), "companies", len(companies))
	return len(records), nil
}

func (w *Workspace) ensureCompany(ctx context.Context, cache map[string]*core.Company, name string) (*core.Company, error) {
	if c, ok := cache[name]; ok {
		return c, nil
	}

	c, err := w.store.FindCompanyByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		c, err = w.store.InsertCompany(ctx, &core.Company{Name: name})
		if errors.Is(err, storage.ErrDuplicateKey) {
			c, err = w.store.FindCompanyByName(ctx, name)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", name, err)
	}
	cache[name] = c
	return c, nil
}

// ChunkStatements holds the statements extracted from one chunk.
type ChunkStatements struct {
	ChunkIndex int                  `json:"chunk_index"`
	Statements []taxonomy.Statement `json:"statements"`
}

// ExtractStatements runs statement extraction over every chunk of t.
// A failed chunk does not stop the others; failures are joined into the
// returned error alongside the chunks that succeeded.
func (w *Workspace) ExtractStatements(ctx context.Context, t *core.Transcript) ([]ChunkStatements, error) {
	if w.provider == nil {
		return nil, ErrNoProvider
	}
	quarter := ""
	if t.Quarter != nil {
		quarter = *t.Quarter
	}
	inputs := openai.DefaultInputs(t.Company, t.Date.Format(time.DateOnly), quarter)
	extractor := w.provider.StatementExtractor()

	var (
		out  []ChunkStatements
		errs []error
	)
	for i, chunk := range t.Chunks {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		statements, err := extractor.ExtractStatements(ctx, chunk.Text, inputs)
		if err != nil {
			errs = append(errs, fmt.Errorf("chunk %d: %w", i, err))
			continue
		}
		out = append(out, ChunkStatements{ChunkIndex: i, Statements: statements})
	}
	return out, errors.Join(errs...)
}

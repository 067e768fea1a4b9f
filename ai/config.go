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


package ai

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ErrorPolicy selects what an embedder does when the remote call fails.
type ErrorPolicy string

const (
	// ErrorPolicyDegrade logs the failure and substitutes a zero vector.
	ErrorPolicyDegrade ErrorPolicy = "degrade"
	// ErrorPolicyPropagate returns the failure to the caller.
	ErrorPolicyPropagate ErrorPolicy = "propagate"
)

const (
	// DefaultHost is Gemini's OpenAI-compatible endpoint.
	DefaultHost = "https://generativelanguage.googleapis.com/v1beta/openai"

	// DefaultEmbeddingDimensions matches text-embedding-004 and is the
	// length of the zero vector returned by a degraded embedding call.
	DefaultEmbeddingDimensions = 768

	// EnvPrefix is the prefix used by ConfigFromEnv.
	EnvPrefix = "EARNCALL"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://generativelanguage.googleapis.com/v1beta/openai"
	EmbeddingHost string

	// ClassifierHost is the base URL for the statement extraction service API.
	ClassifierHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-004"
	EmbeddingModel string

	// ClassifierModel is the model identifier to use for statement extraction.
	// Example: "gemini-2.0-flash"
	ClassifierModel string

	// APIKey authenticates against both hosts. Required.
	APIKey string

	// EmbeddingDimensions is the vector length produced by EmbeddingModel.
	// Default: 768
	EmbeddingDimensions int

	// OnEmbeddingError selects the failure policy of the embedder.
	// Default: ErrorPolicyDegrade
	OnEmbeddingError ErrorPolicy

	// MaxRetries bounds how many times a malformed extraction response is
	// retried before giving up.
	// Default: 3
	MaxRetries int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithClassifierHost sets the classifier service host URL.
func WithClassifierHost(host string) ConfigOption {
	return func(c *Config) {
		c.ClassifierHost = host
	}
}

// WithHost sets both embedding and classifier hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ClassifierHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithClassifierModel sets the classifier model identifier.
func WithClassifierModel(model string) ConfigOption {
	return func(c *Config) {
		c.ClassifierModel = model
	}
}

// WithAPIKey sets the credential sent to both hosts.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingDimensions sets the expected embedding vector length.
func WithEmbeddingDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dims
	}
}

// WithErrorPolicy sets the embedding failure policy.
func WithErrorPolicy(policy ErrorPolicy) ConfigOption {
	return func(c *Config) {
		c.OnEmbeddingError = policy
	}
}

// WithMaxRetries sets the retry bound for statement extraction.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// DefaultConfig returns a Config pointed at Gemini's OpenAI-compatible API.
// The API key is left empty and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:       DefaultHost,
		ClassifierHost:      DefaultHost,
		EmbeddingModel:      "text-embedding-004",
		ClassifierModel:     "gemini-2.0-flash",
		EmbeddingDimensions: DefaultEmbeddingDimensions,
		OnEmbeddingError:    ErrorPolicyDegrade,
		MaxRetries:          3,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	    WithErrorPolicy(ErrorPolicyPropagate),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

type envSpec struct {
	APIKey              string `split_words:"true"`
	GoogleAPIKey        string `envconfig:"GOOGLE_API_KEY"`
	EmbeddingHost       string `split_words:"true"`
	EmbeddingModel      string `split_words:"true"`
	EmbeddingDimensions int    `split_words:"true"`
	OnEmbeddingError    string `split_words:"true"`
	ClassifierHost      string `split_words:"true"`
	ClassifierModel     string `split_words:"true"`
	MaxRetries          *int   `split_words:"true"`
}

// ConfigFromEnv builds a Config from EARNCALL_* environment variables on top
// of DefaultConfig, then applies opts. The API key is read from
// EARNCALL_API_KEY, falling back to GOOGLE_API_KEY.
func ConfigFromEnv(opts ...ConfigOption) (*Config, error) {
	var env envSpec
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	cfg.APIKey = firstNonEmpty(env.APIKey, env.GoogleAPIKey)
	cfg.EmbeddingHost = firstNonEmpty(env.EmbeddingHost, cfg.EmbeddingHost)
	cfg.EmbeddingModel = firstNonEmpty(env.EmbeddingModel, cfg.EmbeddingModel)
	cfg.ClassifierHost = firstNonEmpty(env.ClassifierHost, cfg.ClassifierHost)
	cfg.ClassifierModel = firstNonEmpty(env.ClassifierModel, cfg.ClassifierModel)
	if env.EmbeddingDimensions != 0 {
		cfg.EmbeddingDimensions = env.EmbeddingDimensions
	}
	if env.OnEmbeddingError != "" {
		cfg.OnEmbeddingError = ErrorPolicy(strings.ToLower(env.OnEmbeddingError))
	}
	if env.MaxRetries != nil {
		cfg.MaxRetries = *env.MaxRetries
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are stripped from hosts because the client appends
// endpoint paths itself, and an empty policy becomes ErrorPolicyDegrade.
func (c *Config) Normalize() {
	c.EmbeddingHost = strings.TrimRight(strings.TrimSpace(c.EmbeddingHost), "/")
	c.ClassifierHost = strings.TrimRight(strings.TrimSpace(c.ClassifierHost), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.OnEmbeddingError == "" {
		c.OnEmbeddingError = ErrorPolicyDegrade
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return fmt.Errorf("%w: APIKey is required (set EARNCALL_API_KEY or GOOGLE_API_KEY)", ErrMissingCredential)
	}
	if c.EmbeddingHost == "" {
		return fmt.Errorf("%w: EmbeddingHost is required", ErrInvalidConfig)
	}
	if c.ClassifierHost == "" {
		return fmt.Errorf("%w: ClassifierHost is required", ErrInvalidConfig)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
	}
	if c.ClassifierModel == "" {
		return fmt.Errorf("%w: ClassifierModel is required", ErrInvalidConfig)
	}
	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("%w: EmbeddingDimensions must be positive", ErrInvalidConfig)
	}
	switch c.OnEmbeddingError {
	case ErrorPolicyDegrade, ErrorPolicyPropagate:
	default:
		return fmt.Errorf("%w: unknown embedding error policy %q", ErrInvalidConfig, c.OnEmbeddingError)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MaxRetries must not be negative", ErrInvalidConfig)
	}
	return nil
}

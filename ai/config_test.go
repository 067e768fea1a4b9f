package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
	assert.Equal(t, DefaultHost, cfg.ClassifierHost)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	assert.Equal(t, "gemini-2.0-flash", cfg.ClassifierModel)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
	assert.Equal(t, ErrorPolicyDegrade, cfg.OnEmbeddingError)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
		assert.Equal(t, ErrorPolicyDegrade, cfg.OnEmbeddingError)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ClassifierHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithClassifierHost("http://classify:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://classify:9090/v1", cfg.ClassifierHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIKey("secret"),
			WithEmbeddingModel("custom-embed"),
			WithClassifierModel("custom-classify"),
			WithEmbeddingDimensions(1536),
			WithErrorPolicy(ErrorPolicyPropagate),
			WithMaxRetries(5),
		)

		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "custom-classify", cfg.ClassifierModel)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
		assert.Equal(t, ErrorPolicyPropagate, cfg.OnEmbeddingError)
		assert.Equal(t, 5, cfg.MaxRetries)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "no trailing slash", host: "http://localhost:11434/v1", expected: "http://localhost:11434/v1"},
		{name: "trailing slash", host: "https://generativelanguage.googleapis.com/v1beta/openai/", expected: DefaultHost},
		{name: "surrounding whitespace", host: "  http://localhost:8080/  ", expected: "http://localhost:8080"},
		{name: "empty host", host: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host, ClassifierHost: tt.host}
			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.ClassifierHost)
			assert.Equal(t, ErrorPolicyDegrade, cfg.OnEmbeddingError)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.APIKey = "" }, wantErr: ErrMissingCredential},
		{name: "whitespace api key", mutate: func(c *Config) { c.APIKey = "  " }, wantErr: ErrMissingCredential},
		{name: "missing embedding host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantErr: ErrInvalidConfig},
		{name: "missing classifier host", mutate: func(c *Config) { c.ClassifierHost = "" }, wantErr: ErrInvalidConfig},
		{name: "missing embedding model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantErr: ErrInvalidConfig},
		{name: "missing classifier model", mutate: func(c *Config) { c.ClassifierModel = "" }, wantErr: ErrInvalidConfig},
		{name: "zero dimensions", mutate: func(c *Config) { c.EmbeddingDimensions = 0 }, wantErr: ErrInvalidConfig},
		{name: "unknown policy", mutate: func(c *Config) { c.OnEmbeddingError = "ignore" }, wantErr: ErrInvalidConfig},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithAPIKey("secret"))
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("google api key fallback", func(t *testing.T) {
		t.Setenv("EARNCALL_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "google-secret")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "google-secret", cfg.APIKey)
		assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
	})

	t.Run("prefixed values win", func(t *testing.T) {
		t.Setenv("EARNCALL_API_KEY", "earncall-secret")
		t.Setenv("GOOGLE_API_KEY", "google-secret")
		t.Setenv("EARNCALL_EMBEDDING_MODEL", "embed-x")
		t.Setenv("EARNCALL_EMBEDDING_DIMENSIONS", "256")
		t.Setenv("EARNCALL_ON_EMBEDDING_ERROR", "PROPAGATE")
		t.Setenv("EARNCALL_MAX_RETRIES", "0")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "earncall-secret", cfg.APIKey)
		assert.Equal(t, "embed-x", cfg.EmbeddingModel)
		assert.Equal(t, 256, cfg.EmbeddingDimensions)
		assert.Equal(t, ErrorPolicyPropagate, cfg.OnEmbeddingError)
		assert.Equal(t, 0, cfg.MaxRetries)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("options override env", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google-secret")

		cfg, err := ConfigFromEnv(WithAPIKey("explicit"))
		require.NoError(t, err)
		assert.Equal(t, "explicit", cfg.APIKey)
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("EARNCALL_EMBEDDING_DIMENSIONS", "many")

		_, err := ConfigFromEnv()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

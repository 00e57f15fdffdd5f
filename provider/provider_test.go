package provider

import (
	"context"
	"testing"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"google", Config{Provider: bloom.ProviderGoogle}, false},
		{"vertex", Config{Provider: bloom.ProviderVertex}, false},
		{"openai", Config{Provider: bloom.ProviderOpenAI}, false},
		{"unknown provider", Config{Provider: "anthropic"}, true},
		{"empty provider", Config{}, true},
		{"bad safety threshold", Config{Provider: bloom.ProviderGoogle, SafetyThreshold: "LOW"}, true},
		{"good safety threshold", Config{Provider: bloom.ProviderGoogle, SafetyThreshold: "BLOCK_NONE"}, false},
		{"gemini model on vertex", Config{Provider: bloom.ProviderVertex, Model: "gemini-2.5-flash-image"}, false},
		{"openai model on google", Config{Provider: bloom.ProviderGoogle, Model: "gpt-image-1"}, true},
		{"custom model", Config{Provider: bloom.ProviderGoogle, Model: "gemini-next-image"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigHasCredential(t *testing.T) {
	assert.False(t, Config{Provider: bloom.ProviderGoogle}.HasCredential())
	assert.True(t, Config{Provider: bloom.ProviderGoogle, APIKey: "k"}.HasCredential())
	assert.False(t, Config{Provider: bloom.ProviderVertex, APIKey: "k"}.HasCredential())
	assert.True(t, Config{Provider: bloom.ProviderVertex, Project: "p", Location: "l"}.HasCredential())
	assert.True(t, Config{Provider: bloom.ProviderOpenAI, APIKey: "k"}.HasCredential())
}

func TestConfigResolveModel(t *testing.T) {
	assert.Equal(t, model.Gemini25FlashImage, Config{Provider: bloom.ProviderGoogle}.ResolveModel())
	assert.Equal(t, model.GPTImage1, Config{Provider: bloom.ProviderOpenAI}.ResolveModel())
	assert.Equal(t, model.Gemini3ProImage, Config{Provider: bloom.ProviderGoogle, Model: "gemini-3-pro-image-preview"}.ResolveModel())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credential", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: bloom.ProviderGoogle})
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "nope", APIKey: "k"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoCredential)
	})

	t.Run("google", func(t *testing.T) {
		gen, err := New(ctx, Config{Provider: bloom.ProviderGoogle, APIKey: "k", Model: "gemini-3-pro-image-preview"})
		require.NoError(t, err)
		assert.Equal(t, model.Gemini3ProImage, gen.Model())
	})

	t.Run("openai", func(t *testing.T) {
		gen, err := New(ctx, Config{Provider: bloom.ProviderOpenAI, APIKey: "k", Quality: "low"})
		require.NoError(t, err)
		assert.Equal(t, model.GPTImage1, gen.Model())
	})
}

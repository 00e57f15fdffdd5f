// Package provider builds the upstream image generator selected by configuration.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/internal/provider/google"
	"github.com/spetersoncode/bloom/internal/provider/openai"
	"github.com/spetersoncode/bloom/model"
)

// ErrNoCredential is returned when the selected provider has no credential configured.
var ErrNoCredential = errors.New("no credential configured for image provider")

// Generator is an upstream image generator that knows its model.
type Generator interface {
	bloom.ImageGenerator
	Model() model.ImageModel
}

// Config selects and parameterises one upstream generator.
type Config struct {
	Provider bloom.Provider

	// APIKey is the Gemini API key (google) or OpenAI API key (openai).
	APIKey string

	// Project and Location are required for vertex.
	Project  string
	Location string

	// Model overrides the provider default.
	Model string

	// BaseURL overrides the service endpoint.
	BaseURL string

	// SafetyThreshold is a Gemini harm block threshold, e.g. BLOCK_ONLY_HIGH.
	SafetyThreshold string

	// Temperature is applied when non-nil (Gemini only).
	Temperature *float32

	// Quality is the OpenAI rendering quality.
	Quality string
}

// HasCredential reports whether cfg carries what its provider needs to authenticate.
func (c Config) HasCredential() bool {
	if c.Provider == bloom.ProviderVertex {
		return c.Project != "" && c.Location != ""
	}
	return c.APIKey != ""
}

// ResolveModel returns the configured model or the provider default.
func (c Config) ResolveModel() model.ImageModel {
	if c.Model == "" {
		return model.Default(c.Provider)
	}
	return model.Custom(c.Model, c.Provider)
}

// Validate checks the provider name and generation parameters.
// A missing credential is not a validation error; see HasCredential.
func (c Config) Validate() error {
	switch c.Provider {
	case bloom.ProviderGoogle, bloom.ProviderVertex, bloom.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider: %q (must be google, vertex, or openai)", c.Provider)
	}
	if !google.ValidSafetyThreshold(c.SafetyThreshold) {
		return fmt.Errorf("unknown safety threshold: %q", c.SafetyThreshold)
	}
	if c.Model != "" {
		if m, known := model.Lookup(c.Model); known && !compatible(m.Provider(), c.Provider) {
			return fmt.Errorf("model %s is not served by provider %s", m, c.Provider)
		}
	}
	return nil
}

func compatible(modelProvider, provider bloom.Provider) bool {
	if modelProvider == bloom.ProviderGoogle {
		return provider == bloom.ProviderGoogle || provider == bloom.ProviderVertex
	}
	return modelProvider == provider
}

// New creates the generator selected by cfg.
// It returns ErrNoCredential when the provider's credential is absent.
func New(ctx context.Context, cfg Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: %s", ErrNoCredential, cfg.Provider)
	}

	switch cfg.Provider {
	case bloom.ProviderOpenAI:
		opts := []openai.ClientOption{openai.WithModel(cfg.ResolveModel())}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Quality != "" {
			opts = append(opts, openai.WithQuality(cfg.Quality))
		}
		return openai.New(cfg.APIKey, opts...), nil
	default:
		opts := []google.ClientOption{
			google.WithModel(cfg.ResolveModel()),
			google.WithSafetyThreshold(cfg.SafetyThreshold),
		}
		if cfg.Temperature != nil {
			opts = append(opts, google.WithTemperature(*cfg.Temperature))
		}
		gc := google.Config{BaseURL: cfg.BaseURL}
		if cfg.Provider == bloom.ProviderVertex {
			gc.Project = cfg.Project
			gc.Location = cfg.Location
		} else {
			gc.APIKey = cfg.APIKey
		}
		return google.New(ctx, gc, opts...)
	}
}

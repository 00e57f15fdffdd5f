package model

import "github.com/spetersoncode/bloom"

// ImageModel represents an image generation model from any provider.
type ImageModel struct {
	id       string
	provider bloom.Provider
	pricing  ImagePricing
}

// String returns the API identifier for this model.
func (m ImageModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ImageModel) Provider() bloom.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ImageModel) Pricing() ImagePricing { return m.pricing }

// Google Gemini image models. Served by both the Gemini API and Vertex AI.
// Model pricing last verified: December 14, 2025
var (
	Gemini25FlashImage = ImageModel{id: "gemini-2.5-flash-image", provider: bloom.ProviderGoogle, pricing: ImagePricing{PerImage: 0.039}}
	Gemini3ProImage    = ImageModel{id: "gemini-3-pro-image-preview", provider: bloom.ProviderGoogle, pricing: ImagePricing{PerImage: 0.134}}

	DefaultGeminiModel = Gemini25FlashImage
)

// OpenAI image models that accept a reference photo.
// Model pricing last verified: December 14, 2025
var (
	GPTImage1     = ImageModel{id: "gpt-image-1", provider: bloom.ProviderOpenAI, pricing: ImagePricing{LowQuality: 0.011, MediumQuality: 0.042, HighQuality: 0.167}}
	GPTImage1Mini = ImageModel{id: "gpt-image-1-mini", provider: bloom.ProviderOpenAI, pricing: ImagePricing{LowQuality: 0.005, MediumQuality: 0.013, HighQuality: 0.052}}

	DefaultOpenAIModel = GPTImage1
)

var known = []ImageModel{Gemini25FlashImage, Gemini3ProImage, GPTImage1, GPTImage1Mini}

// Lookup returns the known model with the given identifier.
func Lookup(id string) (ImageModel, bool) {
	for _, m := range known {
		if m.id == id {
			return m, true
		}
	}
	return ImageModel{}, false
}

// Custom wraps an identifier that has no constant, e.g. a new preview model.
// Its pricing is unknown and reported as zero.
func Custom(id string, provider bloom.Provider) ImageModel {
	if m, ok := Lookup(id); ok {
		return m
	}
	return ImageModel{id: id, provider: provider}
}

// Default returns the default model for a provider.
// Vertex AI serves the same Gemini models as the Gemini API.
func Default(provider bloom.Provider) ImageModel {
	if provider == bloom.ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

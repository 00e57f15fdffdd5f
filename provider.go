package bloom

// Provider identifies an upstream image generation backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle Provider = "google"
	ProviderVertex Provider = "vertex"
	ProviderOpenAI Provider = "openai"
)

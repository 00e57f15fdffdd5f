// Package google implements bloom.ImageGenerator on the Gemini API and
// Vertex AI using the google.golang.org/genai SDK.
package google

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/model"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK to implement bloom.ImageGenerator.
type Client struct {
	client      *genai.Client
	model       model.ImageModel
	temperature *float32
	safety      []*genai.SafetySetting
}

// Config selects the backend and credentials.
type Config struct {
	// APIKey authenticates against the Gemini API. Ignored for Vertex AI.
	APIKey string

	// Project and Location select Vertex AI. Authentication then uses
	// Application Default Credentials.
	Project  string
	Location string

	// BaseURL overrides the service endpoint, e.g. for a regional proxy.
	BaseURL string

	// HTTPClient overrides the transport used by the SDK.
	HTTPClient *http.Client
}

// Vertex reports whether the config selects Vertex AI.
func (c Config) Vertex() bool {
	return c.Project != ""
}

// New creates a new Google GenAI client.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	}
	if cfg.Vertex() {
		cc.APIKey = ""
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	c := &Client{
		client: client,
		model:  model.DefaultGeminiModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the model used for generation.
func WithModel(m model.ImageModel) ClientOption {
	return func(c *Client) {
		c.model = m
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(c *Client) {
		c.temperature = &t
	}
}

// WithSafetyThreshold applies one block threshold to every harm category.
// An empty threshold leaves the service defaults in place.
func WithSafetyThreshold(threshold string) ClientOption {
	return func(c *Client) {
		c.safety = safetySettings(threshold)
	}
}

// Model returns the configured model.
func (c *Client) Model() model.ImageModel {
	return c.model
}

// GenerateImage sends the prompt and photo in a single generateContent call
// and returns the first inline image of the reply.
func (c *Client) GenerateImage(ctx context.Context, in bloom.GenerateInput) (*bloom.Image, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(in.Prompt),
			genai.NewPartFromBytes(in.Photo, in.PhotoMIMEType),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Temperature:        c.temperature,
		SafetySettings:     c.safety,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model.String(), contents, config)
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	return extractImage(resp)
}

var _ bloom.ImageGenerator = (*Client)(nil)

// Package openai implements bloom.ImageGenerator on the OpenAI image edit
// endpoint using github.com/openai/openai-go.
package openai

import (
	"bytes"
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/model"
)

// Client wraps the OpenAI SDK to implement bloom.ImageGenerator.
type Client struct {
	client  *openai.Client
	model   model.ImageModel
	quality string
}

// New creates a new OpenAI client with the given API key.
// The SDK's own retries are disabled: callers own the retry policy.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model:   model.DefaultOpenAIModel,
		quality: "medium",
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	for _, opt := range opts {
		reqOpts = opt(c, reqOpts)
	}
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client, []option.RequestOption) []option.RequestOption

// WithModel sets the model used for generation.
func WithModel(m model.ImageModel) ClientOption {
	return func(c *Client, ro []option.RequestOption) []option.RequestOption {
		c.model = m
		return ro
	}
}

// WithQuality sets the rendering quality: low, medium, high or auto.
func WithQuality(q string) ClientOption {
	return func(c *Client, ro []option.RequestOption) []option.RequestOption {
		c.quality = q
		return ro
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client, ro []option.RequestOption) []option.RequestOption {
		return append(ro, option.WithBaseURL(url))
	}
}

// Model returns the configured model.
func (c *Client) Model() model.ImageModel {
	return c.model
}

// GenerateImage edits the reference photo according to the prompt.
func (c *Client) GenerateImage(ctx context.Context, in bloom.GenerateInput) (*bloom.Image, error) {
	params := openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(in.Photo), photoFilename(in.PhotoMIMEType), in.PhotoMIMEType),
		},
		Prompt: in.Prompt,
		Model:  openai.ImageModel(c.model.String()),
	}
	if c.quality != "" {
		params.Quality = openai.ImageEditParamsQuality(c.quality)
	}

	resp, err := c.client.Images.Edit(ctx, params)
	if err != nil {
		return nil, wrapError(ctx, err)
	}

	for _, img := range resp.Data {
		if img.B64JSON != "" {
			return &bloom.Image{MIMEType: "image/png", Data: img.B64JSON}, nil
		}
	}
	return nil, bloom.NewNoImageError(bloom.ReasonNoImagePart, nil)
}

func photoFilename(mimeType string) string {
	ext := strings.TrimPrefix(mimeType, "image/")
	if ext == "" || ext == mimeType {
		ext = "jpg"
	}
	return "photo." + ext
}

var _ bloom.ImageGenerator = (*Client)(nil)

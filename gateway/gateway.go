// Package gateway implements the image generation gateway: it validates a
// (photo, style) request, composes the sculpture prompt, calls the upstream
// generator exactly once and normalises the reply.
//
// The gateway never retries. Every failure is returned as a *bloom.Error so
// callers such as the client package can apply their own retry policy.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/model"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 30 * time.Second

// Gateway turns generation requests into single upstream calls.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	gen     bloom.ImageGenerator
	model   model.ImageModel
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the deadline for the upstream call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithModel records the upstream model for logging and status reporting
// when the generator cannot report it itself.
func WithModel(m model.ImageModel) Option {
	return func(g *Gateway) {
		g.model = m
	}
}

// New creates a Gateway around gen. A nil gen yields a gateway that answers
// every request with a Misconfigured error, so a missing credential surfaces
// per request instead of crashing the process.
func New(gen bloom.ImageGenerator, opts ...Option) *Gateway {
	g := &Gateway{
		gen:     gen,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	if m, ok := gen.(interface{ Model() model.ImageModel }); ok {
		g.model = m.Model()
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configured reports whether an upstream generator is available.
func (g *Gateway) Configured() bool {
	return g.gen != nil
}

// Model returns the upstream model, zero if unknown.
func (g *Gateway) Model() model.ImageModel {
	return g.model
}

// Generate validates req, calls the upstream generator once and returns the
// first image it produced.
func (g *Gateway) Generate(ctx context.Context, req bloom.GenerationRequest) (*bloom.Image, error) {
	log := g.logger.With("request_id", RequestIDFromContext(ctx), "style", req.Style)

	if !g.Configured() {
		log.Error("image service credential not configured")
		return nil, bloom.NewMisconfiguredError("Image service credential not configured")
	}

	if err := req.Validate(); err != nil {
		log.Warn("invalid generation request", "error", err)
		return nil, err
	}
	prompt, err := bloom.BuildPrompt(req.Style)
	if err != nil {
		return nil, err
	}
	photo, mimeType, err := bloom.DecodePhoto(req.Photo)
	if err != nil {
		log.Warn("invalid photo", "error", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	img, err := g.gen.GenerateImage(ctx, bloom.GenerateInput{
		Prompt:        prompt,
		Photo:         photo,
		PhotoMIMEType: mimeType,
	})
	duration := time.Since(start)

	if err != nil {
		err = classify(ctx, err)
		log.Warn("image generation failed",
			"model", g.model.String(),
			"duration_ms", duration.Milliseconds(),
			"kind", bloom.KindOf(err),
			"error", err,
		)
		return nil, err
	}

	log.Info("image generated",
		"model", g.model.String(),
		"mime_type", img.MIMEType,
		"photo_bytes", len(photo),
		"duration_ms", duration.Milliseconds(),
		"estimated_cost_usd", g.model.Pricing().EstimatePerImage(),
	)
	return img, nil
}

// classify makes sure every upstream failure carries a kind.
func classify(ctx context.Context, err error) error {
	var be *bloom.Error
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return bloom.NewTransportError("image service did not respond in time", err)
	}
	return bloom.NewTransportError("image service call failed", err)
}

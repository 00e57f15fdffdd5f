package config

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spetersoncode/bloom/gateway"
	"github.com/spetersoncode/bloom/provider"
)

// NewGateway builds the gateway described by c. A missing credential is
// logged and yields an unconfigured gateway rather than an error.
func (c *Config) NewGateway(ctx context.Context, logger *slog.Logger) (*gateway.Gateway, error) {
	pc := c.ProviderConfig()
	opts := []gateway.Option{
		gateway.WithTimeout(c.UpstreamTimeout),
		gateway.WithLogger(logger),
		gateway.WithModel(pc.ResolveModel()),
	}

	gen, err := provider.New(ctx, pc)
	switch {
	case errors.Is(err, provider.ErrNoCredential):
		logger.Warn("image service credential not configured; generation requests will fail",
			"provider", pc.Provider)
		return gateway.New(nil, opts...), nil
	case err != nil:
		return nil, err
	}
	return gateway.New(gen, opts...), nil
}

// Command bloomd serves the bloom image generation gateway over HTTP.
//
// Configuration is via environment variables (a .env file is loaded if present):
//
//	BLOOM_PORT              - Server port (default: 8080)
//	BLOOM_LOG_LEVEL         - debug, info, warn, or error (default: info)
//	BLOOM_PROVIDER          - google, vertex, or openai (default: google)
//	BLOOM_MODEL             - Model override (optional, uses provider default)
//	BLOOM_UPSTREAM_TIMEOUT  - Deadline for the upstream call (default: 30s)
//	BLOOM_MAX_BODY_BYTES    - Request body limit (default: 10 MiB)
//	BLOOM_RATE_LIMIT        - Generation requests per second per IP (default: 0, unlimited)
//	BLOOM_RATE_BURST        - Burst allowance per IP (default: 3)
//	BLOOM_TRUST_PROXY       - Take client IPs from X-Forwarded-For (default: false)
//	BLOOM_SAFETY_THRESHOLD  - Gemini harm block threshold (optional)
//	BLOOM_TEMPERATURE       - Gemini sampling temperature (optional)
//	GEMINI_API_KEY          - Gemini API key (GOOGLE_API_KEY is also read)
//	OPENAI_API_KEY          - OpenAI API key
//	VERTEX_PROJECT          - Vertex AI project (uses ADC for auth)
//	VERTEX_LOCATION         - Vertex AI location
//
// Without a credential the server still starts; generation requests then
// fail with a misconfigured error.
//
// Usage:
//
//	GEMINI_API_KEY=... go run ./cmd/bloomd
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spetersoncode/bloom/gateway"
	"github.com/spetersoncode/bloom/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	gw, err := cfg.NewGateway(context.Background(), logger)
	if err != nil {
		logger.Error("failed to create image generator", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: gateway.NewRouter(gw, gateway.RouterConfig{
			MaxBodyBytes: cfg.MaxBodyBytes,
			Logger:       logger,
			RateLimit:    cfg.RateLimit,
			RateBurst:    cfg.RateBurst,

			TrustProxyHeaders: cfg.TrustProxy,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	status := gw.Status()
	logger.Info("bloom gateway starting",
		"addr", server.Addr,
		"provider", status.Provider,
		"model", status.Model,
		"configured", status.HasKey,
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

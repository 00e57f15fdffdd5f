package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spetersoncode/bloom"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// MaxBodyBytes bounds request bodies; see NewHandler.
	MaxBodyBytes int64

	// Logger receives access logs. Defaults to slog.Default().
	Logger *slog.Logger

	// RateLimit is the per-IP generation rate in requests per second.
	// Zero disables limiting.
	RateLimit float64

	// RateBurst is the per-IP burst allowance.
	RateBurst int

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites them; otherwise
	// the socket peer address is used.
	TrustProxyHeaders bool
}

// NewRouter mounts the gateway endpoints:
//
//	POST /generate, POST /api/generate  generate an image
//	GET  /health                        liveness
//	GET  /api/status                    configuration summary
func NewRouter(gw *Gateway, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestID, Logger(logger), middleware.Recoverer, CORS)

	generate := NewHandler(gw, cfg.MaxBodyBytes)
	limited := r.With(RateLimit(cfg.RateLimit, cfg.RateBurst))
	limited.Handle("/generate", generate)
	limited.Handle("/api/generate", generate)

	r.Get("/health", healthHandler)
	r.Get("/api/status", statusHandler(gw))

	return r
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status summarises the gateway configuration. It never includes the credential.
type Status struct {
	HasKey   bool     `json:"hasKey"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Styles   []string `json:"styles"`
}

// Status reports the gateway configuration.
func (g *Gateway) Status() Status {
	return Status{
		HasKey:   g.Configured(),
		Provider: g.model.Provider().String(),
		Model:    g.model.String(),
		Styles:   bloom.StyleKeys(),
	}
}

func statusHandler(gw *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gw.Status())
	}
}

package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spetersoncode/bloom"
)

// DefaultMaxBodyBytes bounds the JSON request body, photo included.
const DefaultMaxBodyBytes = 10 << 20

// Handler serves POST /generate.
type Handler struct {
	gw           *Gateway
	maxBodyBytes int64
}

// NewHandler creates an HTTP handler for gw. A non-positive maxBodyBytes
// selects DefaultMaxBodyBytes.
func NewHandler(gw *Gateway, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{gw: gw, maxBodyBytes: maxBodyBytes}
}

// ServeHTTP answers preflight requests, rejects non-POST methods and runs
// one generation per POST.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeError(w, &bloom.Error{Kind: bloom.KindMethodNotAllowed, Msg: "Method not allowed"})
		return
	}

	log := h.gw.logger.With("request_id", RequestIDFromContext(r.Context()))

	if !h.gw.Configured() {
		log.Error("rejecting request: image service credential not configured")
		writeError(w, bloom.NewMisconfiguredError("Image service credential not configured"))
		return
	}

	var req bloom.GenerationRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("request body too large", "limit_bytes", tooLarge.Limit)
			writeError(w, &bloom.Error{Kind: bloom.KindInvalidInput, Msg: "Photo is too large", TooLarge: true, Cause: err})
			return
		}
		log.Warn("invalid request body", "error", err)
		writeError(w, bloom.NewInvalidInputError("Invalid request body", err))
		return
	}

	img, err := h.gw.Generate(r.Context(), req)
	if err != nil {
		var be *bloom.Error
		if !errors.As(err, &be) {
			be = bloom.NewTransportError("image service call failed", err)
		}
		writeError(w, be)
		return
	}

	writeJSON(w, http.StatusOK, bloom.SuccessResult(img))
}

func writeError(w http.ResponseWriter, err *bloom.Error) {
	writeJSON(w, err.HTTPStatus(), bloom.FailureResult(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

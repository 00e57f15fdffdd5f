package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/internal/provider/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(gen bloom.ImageGenerator, maxBody int64) http.Handler {
	return NewRouter(newGateway(gen), RouterConfig{MaxBodyBytes: maxBody, Logger: quietLogger})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, bloom.GenerationResult) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res bloom.GenerationResult
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}
	return rec, res
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestHandlerGenerate(t *testing.T) {
	stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
	h := newTestRouter(stub, 0)

	for _, path := range []string{"/generate", "/api/generate"} {
		t.Run(path, func(t *testing.T) {
			rec, res := do(t, h, http.MethodPost, path, `{"photo":"data:image/jpeg;base64,AAAA","style":"chibi"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assertCORS(t, rec)
			assert.JSONEq(t, `{"success":true,"image":"data:image/png;base64,BBBB"}`, rec.Body.String())
			assert.True(t, res.Success)
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestHandlerPreflight(t *testing.T) {
	stub := returning(nil, nil)
	rec, _ := do(t, newTestRouter(stub, 0), http.MethodOptions, "/generate", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assertCORS(t, rec)
	assert.Zero(t, stub.calls.Load())
}

func TestHandlerPreflightWithoutRouter(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(newGateway(nil), 0).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/generate", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec, res := do(t, newTestRouter(returning(nil, nil), 0), method, "/generate", "")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assertCORS(t, rec)
			assert.Equal(t, bloom.KindMethodNotAllowed, res.Code)
			assert.Equal(t, "Method not allowed", res.Error)
		})
	}
}

func TestHandlerMisconfigured(t *testing.T) {
	rec, res := do(t, newTestRouter(nil, 0), http.MethodPost, "/generate", `{"photo":"AAAA","style":"chibi"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, bloom.KindMisconfigured, res.Code)
}

func TestHandlerMethodCheckedBeforeConfiguration(t *testing.T) {
	rec, _ := do(t, newTestRouter(nil, 0), http.MethodGet, "/generate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"photo":`},
		{"empty body", ``},
		{"missing photo", `{"style":"chibi"}`},
		{"missing style", `{"photo":"AAAA"}`},
		{"unknown style", `{"photo":"AAAA","style":"cubist"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
			rec, res := do(t, newTestRouter(stub, 0), http.MethodPost, "/generate", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, bloom.KindInvalidInput, res.Code)
			assert.NotEmpty(t, res.Error)
			assert.Zero(t, stub.calls.Load())
		})
	}
}

func TestHandlerBodyTooLarge(t *testing.T) {
	stub := returning(nil, nil)
	body := `{"photo":"` + strings.Repeat("A", 2048) + `","style":"chibi"}`

	rec, res := do(t, newTestRouter(stub, 1024), http.MethodPost, "/generate", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, bloom.KindInvalidInput, res.Code)
	assert.Zero(t, stub.calls.Load())
}

func TestHandlerUpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    *bloom.Error
		status int
		reason string
	}{
		{"no image", bloom.NewNoImageError(bloom.ReasonNoImagePart, nil), http.StatusUnprocessableEntity, bloom.ReasonNoImagePart},
		{"safety", bloom.NewNoImageError(bloom.ReasonSafetyFiltered, nil), http.StatusUnprocessableEntity, bloom.ReasonSafetyFiltered},
		{"rate limited", bloom.NewUpstreamError("quota", 429, "RESOURCE_EXHAUSTED", nil), http.StatusTooManyRequests, ""},
		{"server error", bloom.NewUpstreamError("internal", 500, "INTERNAL", nil), http.StatusBadGateway, ""},
		{"transport", bloom.NewTransportError("reset", nil), http.StatusBadGateway, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, res := do(t, newTestRouter(returning(nil, tt.err), 0), http.MethodPost, "/generate", `{"photo":"AAAA","style":"ghibli"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Kind, res.Code)
			assert.Equal(t, tt.err.Msg, res.Error)
			assert.Equal(t, tt.reason, res.Reason)
			assert.False(t, res.Success)
		})
	}
}

func TestHandlerEchoesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	newTestRouter(nil, 0).ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var s Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.False(t, s.HasKey)
	assert.Equal(t, bloom.StyleKeys(), s.Styles)
}

// TestEndToEndWithGeminiUpstream drives the router against a stub Gemini API.
func TestEndToEndWithGeminiUpstream(t *testing.T) {
	var upstreamBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		upstreamBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"image/png","data":"BBBB"}}]},"finishReason":"STOP"}]}`)
	}))
	defer upstream.Close()

	gen, err := google.New(context.Background(), google.Config{APIKey: "test-key", BaseURL: upstream.URL})
	require.NoError(t, err)

	rec, res := do(t, newTestRouter(gen, 0), http.MethodPost, "/generate", `{"photo":"data:image/jpeg;base64,AAAA","style":"chibi"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, res.Success)
	assert.Equal(t, "data:image/png;base64,BBBB", res.Image)

	assert.Contains(t, upstreamBody, `"AAAA"`)
	assert.Contains(t, upstreamBody, "image/jpeg")
	assert.NotContains(t, upstreamBody, "data:image/jpeg;base64")
}

func TestEndToEndSafetyFiltered(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"finishReason":"IMAGE_SAFETY"}]}`)
	}))
	defer upstream.Close()

	gen, err := google.New(context.Background(), google.Config{APIKey: "test-key", BaseURL: upstream.URL})
	require.NoError(t, err)

	rec, res := do(t, newTestRouter(gen, 0), http.MethodPost, "/generate", `{"photo":"AAAA","style":"popmart"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, bloom.KindNoImage, res.Code)
	assert.Equal(t, bloom.ReasonSafetyFiltered, res.Reason)
	assert.NotEqual(t, bloom.NewNoImageError(bloom.ReasonNoImagePart, nil).Msg, res.Error)
}

func TestRateLimit(t *testing.T) {
	stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
	h := NewRouter(newGateway(stub), RouterConfig{Logger: quietLogger, RateLimit: 0.001, RateBurst: 2})

	body := `{"photo":"AAAA","style":"chibi"}`
	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodPost, "/generate", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, res := do(t, h, http.MethodPost, "/generate", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, bloom.KindRateLimited, res.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.EqualValues(t, 2, stub.calls.Load())

	rec, _ = do(t, h, http.MethodOptions, "/generate", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
	h := newTestRouter(stub, 0)

	for i := 0; i < 10; i++ {
		rec, _ := do(t, h, http.MethodPost, "/generate", `{"photo":"AAAA","style":"chibi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func postFrom(h http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"photo":"AAAA","style":"chibi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
	h := NewRouter(newGateway(stub), RouterConfig{Logger: quietLogger, RateLimit: 0.001, RateBurst: 1})

	admitted := 0
	for i := 0; i < 20; i++ {
		rec := postFrom(h, "203.0.113.7:4000", fmt.Sprintf("10.0.0.%d", i))
		if rec.Code == http.StatusOK {
			admitted++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	assert.Equal(t, 1, admitted)
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestRateLimitTrustsForwardedForWhenEnabled(t *testing.T) {
	stub := returning(&bloom.Image{MIMEType: "image/png", Data: "BBBB"}, nil)
	h := NewRouter(newGateway(stub), RouterConfig{
		Logger:            quietLogger,
		RateLimit:         0.001,
		RateBurst:         1,
		TrustProxyHeaders: true,
	})

	assert.Equal(t, http.StatusOK, postFrom(h, "192.0.2.1:4000", "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, postFrom(h, "192.0.2.1:4000", "198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(h, "192.0.2.1:4000", "198.51.100.1").Code)
	assert.EqualValues(t, 2, stub.calls.Load())
}

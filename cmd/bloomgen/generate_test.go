package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spetersoncode/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func writePhoto(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portrait.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))
	return path
}

func TestGenerateWritesImage(t *testing.T) {
	var got bloom.GenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"image":"data:image/png;base64,aGVsbG8="}`))
	}))
	defer srv.Close()

	photo := writePhoto(t)
	var stdout, stderr bytes.Buffer
	err := generate(context.Background(), options{
		url:       srv.URL,
		style:     bloom.StylePopMart,
		photoPath: photo,
		baseDelay: time.Millisecond,
	}, &stdout, &stderr)
	require.NoError(t, err)

	out := filepath.Join(filepath.Dir(photo), "portrait-popmart.png")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, stdout.String(), out)

	assert.Equal(t, bloom.StylePopMart, got.Style)
	assert.Contains(t, got.Photo, "data:image/png;base64,")
}

func TestGenerateVerboseReportsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"success":false,"error":"unreachable","code":"transport_error"}`))
			return
		}
		w.Write([]byte(`{"success":true,"image":"data:image/png;base64,aGVsbG8="}`))
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	err := generate(context.Background(), options{
		url:       srv.URL,
		style:     bloom.StyleChibi,
		photoPath: writePhoto(t),
		out:       filepath.Join(t.TempDir(), "out.png"),
		retries:   2,
		baseDelay: time.Millisecond,
		verbose:   true,
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls.Load())
	assert.Contains(t, stderr.String(), "attempt 1 failed")
	assert.Contains(t, stderr.String(), "retrying in 1ms")
}

func TestGenerateSafetyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"error":"blocked","code":"no_image_produced","reason":"safety_filtered"}`))
	}))
	defer srv.Close()

	err := generate(context.Background(), options{
		url:       srv.URL,
		style:     bloom.StyleChibi,
		photoPath: writePhoto(t),
		baseDelay: time.Millisecond,
	}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safety")
	assert.True(t, bloom.IsSafetyFiltered(err))
}

func TestGenerateRejectsUnknownStyle(t *testing.T) {
	err := generate(context.Background(), options{style: "cubist", photoPath: "missing.jpg"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "dir/me-chibi.png", defaultOutput("dir/me.jpeg", "chibi", "image/png"))
	assert.Equal(t, "me-ghibli.jpg", defaultOutput("me.png", "ghibli", "image/jpeg"))
}

func TestListStyles(t *testing.T) {
	var buf bytes.Buffer
	listStyles(&buf)
	for _, key := range bloom.StyleKeys() {
		assert.Contains(t, buf.String(), key)
	}
}

func TestEncodePhoto(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,", encodePhoto(pngHeader)[:len("data:image/png;base64,")])

	heic := []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic")
	encoded := encodePhoto(heic)
	assert.NotContains(t, encoded, "data:")

	data, mimeType, err := bloom.DecodePhoto(encoded)
	require.NoError(t, err)
	assert.Equal(t, heic, data)
	assert.Equal(t, bloom.DefaultPhotoMIMEType, mimeType)
}

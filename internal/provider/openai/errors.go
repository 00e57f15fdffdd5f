package openai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/bloom"
)

// wrapError classifies an OpenAI SDK error.
// Moderation rejections are reported as safety-filtered NoImageProduced,
// other API errors as UpstreamError, and the rest as TransportError.
func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return bloom.NewTransportError("image service did not respond in time", err)
		}
		return bloom.NewTransportError("image service unreachable", err)
	}

	if apiErr.Code == "moderation_blocked" || apiErr.Code == "content_policy_violation" {
		return bloom.NewNoImageError(bloom.ReasonSafetyFiltered, map[string]string{"code": apiErr.Code})
	}

	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}
	upstream := bloom.NewUpstreamError(msg, apiErr.StatusCode, apiErr.Code, err)
	if retryAfter := parseRetryAfter(apiErr.Response); retryAfter > 0 {
		upstream.Details = map[string]int{"retryAfterSeconds": int(retryAfter.Seconds())}
	}
	return upstream
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	// Try parsing as seconds (most common)
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

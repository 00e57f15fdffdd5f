package google

import (
	"context"
	"errors"

	"github.com/spetersoncode/bloom"
	"google.golang.org/genai"
)

// wrapError classifies a GenAI SDK error.
// API errors become UpstreamError carrying the upstream message, code and
// status; everything else, including an expired deadline, is a TransportError.
func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return bloom.NewUpstreamError(upstreamMessage(apiErr), apiErr.Code, apiErr.Status, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return bloom.NewUpstreamError(upstreamMessage(*apiErrPtr), apiErrPtr.Code, apiErrPtr.Status, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return bloom.NewTransportError("image service did not respond in time", err)
	}
	return bloom.NewTransportError("image service unreachable", err)
}

func upstreamMessage(apiErr genai.APIError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return apiErr.Error()
}

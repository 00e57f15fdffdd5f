package bloom

import (
	"encoding/json"
	"fmt"
)

// GenerationRequest is the body of POST /generate.
type GenerationRequest struct {
	Photo string `json:"photo"`
	Style string `json:"style"`
}

// UnmarshalJSON accepts userPhoto as an alias for photo.
func (r *GenerationRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Photo     string `json:"photo"`
		UserPhoto string `json:"userPhoto"`
		Style     string `json:"style"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Photo = raw.Photo
	if r.Photo == "" {
		r.Photo = raw.UserPhoto
	}
	r.Style = raw.Style
	return nil
}

// Validate checks required fields and the style key.
func (r GenerationRequest) Validate() error {
	if r.Photo == "" || r.Style == "" {
		return NewInvalidInputError("Missing photo or style", nil)
	}
	if !IsValidStyle(r.Style) {
		return NewInvalidInputError(fmt.Sprintf("Invalid style %q", r.Style), nil)
	}
	return nil
}

// GenerationResult is the JSON reply of the gateway. Exactly one of Image
// and Error is set.
type GenerationResult struct {
	Success bool      `json:"success"`
	Image   string    `json:"image,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    ErrorKind `json:"code,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	Details any       `json:"details,omitempty"`

	// Upstream status, set for upstream_error only.
	UpstreamCode   int    `json:"upstreamCode,omitempty"`
	UpstreamStatus string `json:"upstreamStatus,omitempty"`
}

// SuccessResult wraps a generated image.
func SuccessResult(img *Image) GenerationResult {
	return GenerationResult{Success: true, Image: img.DataURI()}
}

// FailureResult renders a classified error. Causes are not exposed.
func FailureResult(err *Error) GenerationResult {
	return GenerationResult{
		Error:   err.Msg,
		Code:    err.Kind,
		Reason:  err.Reason,
		Details: err.Details,

		UpstreamCode:   err.Code,
		UpstreamStatus: err.Status,
	}
}

// Err rebuilds the classified error from a failure result.
// httpStatus is used to restore the rate-limit and size flags.
func (r GenerationResult) Err(httpStatus int) *Error {
	e := &Error{
		Kind:    r.Code,
		Msg:     r.Error,
		Code:    r.UpstreamCode,
		Status:  r.UpstreamStatus,
		Reason:  r.Reason,
		Details: r.Details,
	}
	switch httpStatus {
	case 429:
		e.RateLimited = true
	case 413:
		e.TooLarge = true
	}
	return e
}

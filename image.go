package bloom

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// ImageGenerator defines the interface for upstream image generation services.
// Implementations make exactly one call per invocation and return a classified
// *Error on failure.
type ImageGenerator interface {
	// GenerateImage produces an image from a prompt and a reference photo.
	GenerateImage(ctx context.Context, in GenerateInput) (*Image, error)
}

// GenerateInput is the provider-neutral payload sent upstream.
type GenerateInput struct {
	Prompt        string
	Photo         []byte
	PhotoMIMEType string
}

// Image is a generated image carried as base64 data.
type Image struct {
	MIMEType string
	// Data is the standard base64 encoding of the image bytes.
	Data string
}

// DataURI renders the image as data:<mime>;base64,<data>.
func (img Image) DataURI() string {
	return "data:" + img.MIMEType + ";base64," + img.Data
}

// NewImage encodes raw image bytes.
func NewImage(mimeType string, data []byte) *Image {
	return &Image{MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}
}

// DefaultPhotoMIMEType is assumed when a photo carries no prefix and cannot be sniffed.
const DefaultPhotoMIMEType = "image/jpeg"

var dataURIPrefix = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// ErrNotDataURI is returned by ParseDataURI for strings without an image data-URI prefix.
var ErrNotDataURI = errors.New("not an image data URI")

// StripDataURIPrefix removes a leading data:image/<subtype>;base64, prefix.
// Strings without a recognised prefix are returned unchanged.
func StripDataURIPrefix(s string) string {
	if loc := dataURIPrefix.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

// ParseDataURI splits an image data URI into its MIME type and base64 payload.
func ParseDataURI(s string) (Image, error) {
	m := dataURIPrefix.FindStringSubmatchIndex(s)
	if m == nil {
		return Image{}, ErrNotDataURI
	}
	return Image{MIMEType: s[m[2]:m[3]], Data: s[m[1]:]}, nil
}

// DecodePhoto turns a client-supplied photo string into raw bytes and a MIME type.
// The type comes from the data-URI prefix when present, otherwise from content
// sniffing, falling back to DefaultPhotoMIMEType.
func DecodePhoto(photo string) ([]byte, string, error) {
	mimeType := ""
	payload := photo
	if img, err := ParseDataURI(photo); err == nil {
		mimeType = img.MIMEType
		payload = img.Data
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", NewInvalidInputError("Photo is empty", nil)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some browsers emit unpadded base64.
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, "", NewInvalidInputError("Photo is not valid base64 image data", err)
		}
	}

	if mimeType == "" {
		mimeType = sniffImageType(data)
	}
	return data, mimeType, nil
}

func sniffImageType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return DefaultPhotoMIMEType
}

// String implements fmt.Stringer without dumping the payload.
func (img Image) String() string {
	return fmt.Sprintf("Image{%s, %d base64 bytes}", img.MIMEType, len(img.Data))
}

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/client"
	"github.com/spetersoncode/bloom/retry"
)

type options struct {
	url       string
	style     string
	out       string
	photoPath string
	retries   int
	baseDelay time.Duration
	verbose   bool
}

// generate reads the photo, calls the gateway and writes the image.
func generate(ctx context.Context, o options, stdout, stderr io.Writer) error {
	if !bloom.IsValidStyle(o.style) {
		return fmt.Errorf("unknown style %q (choose from %s)", o.style, strings.Join(bloom.StyleKeys(), ", "))
	}

	raw, err := os.ReadFile(o.photoPath)
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	photo := encodePhoto(raw)

	retryCfg := retry.WithRetries(o.retries, o.baseDelay)
	cfg := client.Config{BaseURL: o.url, RetryConfig: &retryCfg}

	var events chan retry.Event
	done := make(chan struct{})
	if o.verbose {
		events = make(chan retry.Event, 16)
		cfg.Events = events
		go func() {
			defer close(done)
			for e := range events {
				printEvent(stderr, e)
			}
		}()
	} else {
		close(done)
	}

	dataURI, err := client.New(cfg).Generate(ctx, photo, o.style)
	if events != nil {
		close(events)
	}
	<-done
	if err != nil {
		return describe(err)
	}

	img, err := bloom.ParseDataURI(dataURI)
	if err != nil {
		return fmt.Errorf("unexpected gateway reply: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	out := o.out
	if out == "" {
		out = defaultOutput(o.photoPath, o.style, img.MIMEType)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes)\n", out, len(data))
	return nil
}

// encodePhoto renders raw as a data URI when its type sniffs as an image.
// Other formats (e.g. HEIC) go as bare base64 and the gateway picks the type.
func encodePhoto(raw []byte) string {
	img := bloom.NewImage(http.DetectContentType(raw), raw)
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return img.Data
	}
	return img.DataURI()
}

func printEvent(w io.Writer, e retry.Event) {
	switch e.Type {
	case retry.EventAttemptStart:
		fmt.Fprintf(w, "attempt %d/%d\n", e.Attempt, e.MaxAttempts)
	case retry.EventAttemptFailed:
		fmt.Fprintf(w, "attempt %d failed: %v\n", e.Attempt, e.Error)
	case retry.EventRetrying:
		fmt.Fprintf(w, "retrying in %s\n", e.Delay)
	}
}

// describe turns a classified failure into a message for the user.
func describe(err error) error {
	switch {
	case bloom.IsSafetyFiltered(err):
		return fmt.Errorf("the photo was blocked by content safety filters; try a different photo: %w", err)
	case bloom.IsKind(err, bloom.KindMisconfigured):
		return fmt.Errorf("the gateway has no image service credential: %w", err)
	default:
		return err
	}
}

func defaultOutput(photoPath, style, mimeType string) string {
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	base := strings.TrimSuffix(photoPath, filepath.Ext(photoPath))
	return base + "-" + style + ext
}

func listStyles(w io.Writer) {
	for _, s := range bloom.Styles() {
		fmt.Fprintf(w, "%-10s %s %s\n", s.Key, s.Emoji, s.Name)
	}
}

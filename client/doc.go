// Package client calls the bloom gateway over HTTP and retries transient
// failures with exponential backoff.
//
// # Basic Usage
//
//	c := client.New(client.Config{BaseURL: "https://bloom.example.com"})
//
//	image, err := c.Generate(ctx, photoDataURI, bloom.StyleChibi)
//	if err != nil {
//	    // err is a *bloom.Error rebuilt from the gateway's reply
//	    log.Printf("generation failed (%s): %v", bloom.KindOf(err), err)
//	}
//	// image is "data:image/png;base64,..."
//
// # Retries
//
// By default a call is retried twice, waiting 1s then 2s. Only transport
// failures and generic upstream or server errors are retried. Invalid input,
// misconfiguration, missing images, rate limits (429) and oversized payloads
// (413) end the call immediately.
//
//	cfg := retry.WithRetries(4, 500*time.Millisecond)
//	c := client.New(client.Config{BaseURL: baseURL, RetryConfig: &cfg})
//
// Pass a channel as Config.Events to observe attempts and backoff delays.
// Events are sent non-blocking; if the channel is full, events are dropped.
//
// Independent Generate calls are not coalesced: each runs its own attempt
// sequence, and the last to finish wins in the caller's state.
package client

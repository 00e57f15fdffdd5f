// Package bloom turns a customer's photo into a preserved-hydrangea flower
// sculpture rendering by proxying it to a generative image service.
//
// The root package holds the shared domain types: the compiled-in style
// catalog, prompt composition, photo and data-URI handling, the
// [ImageGenerator] interface implemented by each upstream backend, and the
// classified [Error] type every layer speaks.
//
// # Components
//
//   - [github.com/spetersoncode/bloom/gateway]: validates a request, calls the
//     upstream generator exactly once and normalises its reply. Also serves
//     POST /generate over HTTP.
//   - [github.com/spetersoncode/bloom/client]: calls the gateway over HTTP and
//     retries transient failures with exponential backoff.
//   - [github.com/spetersoncode/bloom/provider]: builds the configured
//     upstream generator (Gemini API, Vertex AI or OpenAI).
//   - [github.com/spetersoncode/bloom/mcp]: exposes the gateway as MCP tools.
//
// # Basic Usage
//
//	gen, err := provider.New(ctx, provider.Config{
//	    Provider: bloom.ProviderGoogle,
//	    APIKey:   cfg.GeminiKey,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gw := gateway.New(gen)
//
//	img, err := gw.Generate(ctx, bloom.GenerationRequest{
//	    Photo: "data:image/jpeg;base64,/9j/4AAQ...",
//	    Style: bloom.StyleChibi,
//	})
//	if err != nil {
//	    switch bloom.KindOf(err) {
//	    case bloom.KindNoImage:
//	        // show err to the user, offer a different photo
//	    }
//	}
//	fmt.Println(img.DataURI())
//
// # Error Handling
//
// Every failure is an [*Error] with a [ErrorKind]. [Error.Retryable] encodes
// the retry policy: transport failures and generic upstream errors may be
// retried; invalid input, misconfiguration, missing images, rate limits and
// oversized payloads may not.
package bloom

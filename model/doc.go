// Package model provides image model constants for the supported upstream providers.
//
// Models know their provider and per-image pricing, so the gateway can route a
// configured model name to the right backend and log an estimated cost:
//
//	m := model.Gemini25FlashImage
//	fmt.Println(m.Provider(), m.Pricing().PerImage)
//
// Unknown identifiers can still be used; [Lookup] reports whether a name is
// one of the constants below, and [Custom] wraps any other identifier.
package model

package bloom

import "sort"

// Style describes one art style a sculpture can be rendered in.
type Style struct {
	Key    string
	Name   string
	Emoji  string
	Prompt string // fragment interpolated into the generation prompt
}

// Style keys.
const (
	StyleChibi     = "chibi"
	StyleGhibli    = "ghibli"
	StylePopMart   = "popmart"
	StyleRealistic = "realistic"
)

var styleCatalog = map[string]Style{
	StyleChibi: {
		Key:    StyleChibi,
		Name:   "Chibi",
		Emoji:  "🧸",
		Prompt: "CHIBI style with super-deformed cute proportions - oversized head (40% of body), huge round eyes, tiny stubby limbs, kawaii aesthetic",
	},
	StyleGhibli: {
		Key:    StyleGhibli,
		Name:   "Ghibli",
		Emoji:  "🌿",
		Prompt: "STUDIO GHIBLI style - soft, dreamy, whimsical Miyazaki-inspired aesthetic with gentle warm tones",
	},
	StylePopMart: {
		Key:    StylePopMart,
		Name:   "Pop Mart",
		Emoji:  "🎀",
		Prompt: "POP MART style - designer vinyl toy look with oversized head, minimal facial features, smooth rounded shapes",
	},
	StyleRealistic: {
		Key:    StyleRealistic,
		Name:   "Realistic",
		Emoji:  "🌸",
		Prompt: "REALISTIC style - true-to-life proportions and accurate likeness matching the original photo",
	},
}

// LookupStyle returns the catalog entry for key.
func LookupStyle(key string) (Style, bool) {
	s, ok := styleCatalog[key]
	return s, ok
}

// IsValidStyle reports whether key names a catalog style.
func IsValidStyle(key string) bool {
	_, ok := styleCatalog[key]
	return ok
}

// Styles returns every catalog style sorted by key.
func Styles() []Style {
	out := make([]Style, 0, len(styleCatalog))
	for _, s := range styleCatalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// StyleKeys returns the catalog keys sorted.
func StyleKeys() []string {
	styles := Styles()
	keys := make([]string, len(styles))
	for i, s := range styles {
		keys[i] = s.Key
	}
	return keys
}

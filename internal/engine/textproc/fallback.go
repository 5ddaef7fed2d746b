package textproc

import (
	"log/slog"
	"strings"
)

// PlaceholderToken is substituted when every fallback stage reduces the
// message to nothing, so the classifier always receives a non-empty input.
const PlaceholderToken = "unknown"

// stage is one step of the fallback chain: a named transformation tried
// against the raw message.
type stage struct {
	name      string
	transform func(raw string) string
}

// Resolver runs the ordered fallback chain that turns a raw message into the
// text handed to the classifier. Short or heavily obfuscated messages often
// reduce to nothing after aggressive filtering; the chain degrades from
// full filtering, to normalization only, to the placeholder token.
type Resolver struct {
	stages []stage
}

// NewResolver builds the standard two-stage chain over the given filter.
func NewResolver(f *Filter) *Resolver {
	return &Resolver{
		stages: []stage{
			{name: "filtered", transform: func(raw string) string {
				return f.FilterTokens(Normalize(raw))
			}},
			{name: "normalized", transform: Normalize},
		},
	}
}

// ResolveInput returns the first stage output that is not blank, or the
// placeholder token when the chain is exhausted. Total: it never fails and
// never returns an empty or whitespace-only string.
func (r *Resolver) ResolveInput(raw string) string {
	for _, st := range r.stages {
		if out := st.transform(raw); strings.TrimSpace(out) != "" {
			return out
		}
		slog.Debug("fallback stage produced no text", "stage", st.name)
	}
	return PlaceholderToken
}

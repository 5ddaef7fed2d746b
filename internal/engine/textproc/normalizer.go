// Package textproc implements the text preparation pipeline that runs ahead
// of the classifier artifact: normalization, token filtering, and the
// fallback chain that guarantees a non-empty model input.
package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Patterns stripped by Normalize, compiled once. The phone patterns come in
// two flavors: bare digit runs (optionally with a country-code prefix) and
// punctuation-separated 3-3-4 groupings.
var (
	urlPattern        = regexp.MustCompile(`https?://[^\s]+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	digitRunPattern   = regexp.MustCompile(`\+?[1-9]?[0-9]{7,15}`)
	phoneGroupPattern = regexp.MustCompile(`\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	nonLetterPattern  = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// Normalize lowercases text and strips URLs, email addresses, phone-shaped
// digit sequences, and every remaining non-letter character, then collapses
// whitespace. Total and idempotent: any input maps to a (possibly empty)
// string of single-space-separated lowercase words.
//
// NFKD decomposition runs before lowercasing so that accented letters fold
// to their ASCII base ("café" → "cafe") and compatibility characters whose
// expansions contain uppercase letters ("™" → "TM", "№" → "No") still come
// out lowercase.
func Normalize(text string) string {
	s := norm.NFKD.String(text)
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, "")
	s = emailPattern.ReplaceAllString(s, "")
	s = digitRunPattern.ReplaceAllString(s, "")
	s = phoneGroupPattern.ReplaceAllString(s, "")
	s = nonLetterPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter splits normalized text into candidate tokens. It only segments;
// stopword and length filtering is applied by the Filter to whatever the
// segmenter yields, so swapping segmenters cannot change filtering semantics.
type Segmenter func(text string) []string

// LetterRuns is the default segmenter: it extracts maximal runs of Unicode
// letters. On normalized input (lowercase letters and single spaces) this is
// equivalent to a whitespace split, but it also behaves sensibly for text
// that bypassed normalization.
func LetterRuns(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
}

// Filter drops stopwords and very short tokens from normalized text.
type Filter struct {
	seg Segmenter
}

// NewFilter creates a Filter using the given segmenter. A nil segmenter is
// allowed; the plain whitespace split then handles all input.
func NewFilter(seg Segmenter) *Filter {
	return &Filter{seg: seg}
}

// FilterTokens tokenizes normalized text, discards stopwords and tokens of
// two characters or fewer, and rejoins the rest with single spaces. If the
// segmenter is absent or yields nothing for non-blank input, a plain
// whitespace split takes over with identical filtering semantics.
func (f *Filter) FilterTokens(normalized string) string {
	kept := keep(f.segment(normalized))
	return strings.Join(kept, " ")
}

func (f *Filter) segment(text string) []string {
	if f.seg != nil {
		if tokens := f.seg(text); len(tokens) > 0 {
			return tokens
		}
	}
	return strings.Fields(text)
}

// keep applies the shared filtering rules: stopwords and tokens shorter than
// three characters are dropped.
func keep(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 2 || IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

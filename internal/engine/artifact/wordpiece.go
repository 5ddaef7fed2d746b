package artifact

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxSeqLen caps the encoded sequence length ([CLS] + tokens + [SEP]).
// SMS-length inputs rarely come close; longer text is truncated.
const maxSeqLen = 128

// encoder turns text into the token-ID sequence the classifier consumes.
// BERT-style: basic tokenization (lowercase, accent strip, punctuation
// split) followed by greedy WordPiece decomposition.
type encoder struct {
	vocab *vocab
}

func newEncoder(vocabPath string) (*encoder, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	return &encoder{vocab: v}, nil
}

// encode converts a single text into input IDs and an attention mask with
// [CLS]/[SEP] framing. No padding: the returned slices are exactly as long
// as the sequence, suitable for a batch-of-one inference.
func (e *encoder) encode(text string) (inputIDs, attentionMask []int64) {
	tokens := e.wordpiece(basicTokenize(text))
	if max := maxSeqLen - 2; len(tokens) > max {
		tokens = tokens[:max]
	}

	ids := make([]int64, 0, len(tokens)+2)
	ids = append(ids, e.vocab.clsID)
	for _, tok := range tokens {
		ids = append(ids, e.vocab.lookup(tok))
	}
	ids = append(ids, e.vocab.sepID)

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return ids, mask
}

// wordpiece greedily decomposes each basic token into the longest vocabulary
// subwords; a token with any unmatchable remainder becomes [UNK].
func (e *encoder) wordpiece(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		out = append(out, e.subwords(tok)...)
	}
	return out
}

func (e *encoder) subwords(token string) []string {
	runes := []rune(token)
	if len(runes) > 200 {
		return []string{"[UNK]"}
	}

	var subs []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		matched := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if e.vocab.contains(sub) {
				subs = append(subs, sub)
				matched = true
				break
			}
			end--
		}
		if !matched {
			return []string{"[UNK]"}
		}
		start = end
	}
	return subs
}

// basicTokenize lowercases, strips accents, and splits on whitespace and
// punctuation, mirroring BERT's BasicTokenizer for uncased models.
func basicTokenize(text string) []string {
	text = strings.ToLower(text)
	text = stripMarks(text)

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitPunct(word)...)
	}
	return tokens
}

// stripMarks removes combining marks after NFD decomposition and drops
// control characters.
func stripMarks(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitPunct splits a word into alternating letter/digit runs and individual
// punctuation tokens.
func splitPunct(word string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range word {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			tokens = append(tokens, string(r))
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

package artifact

import (
	"bufio"
	"fmt"
	"os"
)

// vocab is the WordPiece vocabulary the classifier was trained with, loaded
// from a vocab.txt file where the 0-indexed line number is the token ID.
type vocab struct {
	ids map[string]int64

	unkID int64
	clsID int64
	sepID int64
}

func loadVocab(path string) (*vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ids := make(map[string]int64, 32000)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ids[scanner.Text()] = int64(len(ids))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("vocab: file is empty: %s", path)
	}

	// [PAD] is required as a completeness check even though the
	// single-sequence encoder never pads.
	if _, ok := ids["[PAD]"]; !ok {
		return nil, fmt.Errorf("vocab: missing special token [PAD]")
	}

	v := &vocab{ids: ids}
	for _, s := range []struct {
		name string
		dest *int64
	}{
		{"[UNK]", &v.unkID},
		{"[CLS]", &v.clsID},
		{"[SEP]", &v.sepID},
	} {
		id, ok := ids[s.name]
		if !ok {
			return nil, fmt.Errorf("vocab: missing special token %s", s.name)
		}
		*s.dest = id
	}
	return v, nil
}

// lookup returns the token's ID, or the [UNK] ID for unknown tokens.
func (v *vocab) lookup(token string) int64 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.unkID
}

func (v *vocab) contains(token string) bool {
	_, ok := v.ids[token]
	return ok
}

package textnorm

import (
	"fmt"
)

// CharTokenizer encodes transcripts as per-character label ids.
type CharTokenizer struct {
	ids       map[rune]int32
	labels    []string
	unkID     int32
	blankID   int32
	normalize bool
}

// CharOptions configures CharTokenizer construction.
type CharOptions struct {
	// UnkID is the id emitted for characters outside the vocabulary. A
	// negative value drops unknown characters instead.
	UnkID int32
	// BlankID reserves an id that never appears in encoded text (CTC blank).
	// A negative value disables the reservation check.
	BlankID int32
	// Normalize runs Normalize on the transcript before encoding.
	Normalize bool
}

// NewCharTokenizer builds a tokenizer over the given single-character labels.
// Label ids follow slice order.
func NewCharTokenizer(labels []string, opts CharOptions) (*CharTokenizer, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("textnorm: empty label set")
	}
	ids := make(map[rune]int32, len(labels))
	for i, label := range labels {
		runesInLabel := []rune(label)
		if len(runesInLabel) != 1 {
			return nil, fmt.Errorf("textnorm: label %q at index %d is not a single character", label, i)
		}
		r := runesInLabel[0]
		if _, dup := ids[r]; dup {
			return nil, fmt.Errorf("textnorm: duplicate label %q", label)
		}
		ids[r] = int32(i)
	}
	if opts.BlankID >= 0 && int(opts.BlankID) < len(labels) {
		return nil, fmt.Errorf("textnorm: blank id %d collides with label %q", opts.BlankID, labels[opts.BlankID])
	}
	return &CharTokenizer{
		ids:       ids,
		labels:    append([]string(nil), labels...),
		unkID:     opts.UnkID,
		blankID:   opts.BlankID,
		normalize: opts.Normalize,
	}, nil
}

// TextToIDs encodes the transcript into label ids.
func (t *CharTokenizer) TextToIDs(text string) []int32 {
	if t.normalize {
		text = Normalize(text)
	}
	out := make([]int32, 0, len(text))
	for _, r := range text {
		id, ok := t.ids[r]
		if !ok {
			if t.unkID < 0 {
				continue
			}
			id = t.unkID
		}
		out = append(out, id)
	}
	return out
}

// VocabSize returns the number of labels in the vocabulary.
func (t *CharTokenizer) VocabSize() int {
	return len(t.labels)
}

// Labels returns a copy of the vocabulary in id order.
func (t *CharTokenizer) Labels() []string {
	return append([]string(nil), t.labels...)
}

package manifest

import (
	"fmt"
)

// Tokenizer converts transcript text into token ids.
type Tokenizer interface {
	TextToIDs(text string) []int32
}

// ProcessorOptions configures transcript encoding.
type ProcessorOptions struct {
	// BOSID is prepended to every token sequence when non-negative.
	BOSID int32
	// EOSID is appended to every token sequence when non-negative.
	EOSID int32
	// PadID is the id collation uses for token padding.
	PadID int32
}

// Processor pairs a filtered manifest collection with a tokenizer and
// sequence decoration.
type Processor struct {
	Collection *Collection

	tokenizer Tokenizer
	bosID     int32
	eosID     int32
	padID     int32
}

// NewProcessor builds a processor over an already-loaded collection.
func NewProcessor(collection *Collection, tokenizer Tokenizer, opts ProcessorOptions) (*Processor, error) {
	if collection == nil {
		return nil, fmt.Errorf("manifest: nil collection")
	}
	return &Processor{
		Collection: collection,
		tokenizer:  tokenizer,
		bosID:      opts.BOSID,
		eosID:      opts.EOSID,
		padID:      opts.PadID,
	}, nil
}

// PadID returns the token padding id.
func (p *Processor) PadID() int32 {
	return p.padID
}

// TokensForEntry encodes the entry's transcript, preferring pre-tokenized
// ids from the manifest, and applies BOS/EOS decoration.
func (p *Processor) TokensForEntry(entry Entry) ([]int32, error) {
	var tokens []int32
	switch {
	case len(entry.Tokens) > 0:
		tokens = append(tokens, entry.Tokens...)
	case p.tokenizer != nil:
		tokens = p.tokenizer.TextToIDs(entry.Text)
	default:
		return nil, fmt.Errorf("manifest: entry %q has text but no tokenizer configured", entry.AudioFile)
	}

	if p.bosID >= 0 {
		tokens = append([]int32{p.bosID}, tokens...)
	}
	if p.eosID >= 0 {
		tokens = append(tokens, p.eosID)
	}
	return tokens, nil
}

// TokensForIndex encodes the transcript of the entry at the given position.
func (p *Processor) TokensForIndex(index int) ([]int32, error) {
	entry, err := p.Collection.Entry(index)
	if err != nil {
		return nil, err
	}
	return p.TokensForEntry(entry)
}

// TokensForFileID encodes the transcript of the first entry registered for
// the file id.
func (p *Processor) TokensForFileID(fileID string) ([]int32, error) {
	indexes, ok := p.Collection.Offsets(fileID)
	if !ok || len(indexes) == 0 {
		return nil, fmt.Errorf("manifest: unknown file id %q", fileID)
	}
	return p.TokensForIndex(indexes[0])
}

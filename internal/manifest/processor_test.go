package manifest

import (
	"testing"
)

type stubTokenizer struct{}

func (stubTokenizer) TextToIDs(text string) []int32 {
	ids := make([]int32, 0, len(text))
	for _, r := range text {
		ids = append(ids, int32(r))
	}
	return ids
}

func TestProcessorAppliesBOSAndEOS(t *testing.T) {
	path := writeManifest(t, line("a.wav", 1, 0, "hi"))
	c, err := Load([]string{path}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := NewProcessor(c, stubTokenizer{}, ProcessorOptions{BOSID: 1, EOSID: 2, PadID: 0})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	tokens, err := p.TokensForIndex(0)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("expected bos + 2 chars + eos, got %v", tokens)
	}
	if tokens[0] != 1 || tokens[len(tokens)-1] != 2 {
		t.Fatalf("expected bos 1 and eos 2, got %v", tokens)
	}
}

func TestProcessorSkipsDecorationWhenNegative(t *testing.T) {
	path := writeManifest(t, line("a.wav", 1, 0, "hi"))
	c, err := Load([]string{path}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := NewProcessor(c, stubTokenizer{}, ProcessorOptions{BOSID: -1, EOSID: -1})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	tokens, err := p.TokensForIndex(0)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected bare transcript, got %v", tokens)
	}
}

func TestProcessorPrefersPretokenizedIDs(t *testing.T) {
	path := writeManifest(t, `{"audio_filepath":"a.wav","token_labels":[7,8]}`)
	c, err := Load([]string{path}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := NewProcessor(c, nil, ProcessorOptions{BOSID: -1, EOSID: -1})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	tokens, err := p.TokensForIndex(0)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != 7 || tokens[1] != 8 {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestProcessorTokensForFileID(t *testing.T) {
	path := writeManifest(t, line("utt.wav", 1, 0, "ab"))
	c, err := Load([]string{path}, Options{IndexByFileID: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := NewProcessor(c, stubTokenizer{}, ProcessorOptions{BOSID: -1, EOSID: -1})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	if _, err := p.TokensForFileID("utt"); err != nil {
		t.Fatalf("tokens for file id: %v", err)
	}
	if _, err := p.TokensForFileID("nope"); err == nil {
		t.Fatal("expected error for unknown file id")
	}
}

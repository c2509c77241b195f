package manifest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func line(audio string, duration float64, offset float64, text string) string {
	return fmt.Sprintf(
		`{"audio_filepath":%q,"video_filepath":%q,"duration":%v,"offset":%v,"text":%q}`,
		audio, strings.TrimSuffix(audio, ".wav")+".mp4", duration, offset, text,
	)
}

func TestLoadFiltersDurationBounds(t *testing.T) {
	path := writeManifest(t,
		line("clips/a.wav", 0.05, 0, "too short"),
		line("clips/b.wav", 2.0, 0, "kept"),
		line("clips/c.wav", 30.0, 0, "too long"),
		line("clips/d.wav", 5.5, 0, "kept too"),
	)

	c, err := Load([]string{path}, Options{MinDuration: 0.1, MaxDuration: 20})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries after filtering, got %d", c.Len())
	}
	if c.FilteredCount != 2 {
		t.Fatalf("expected 2 filtered entries, got %d", c.FilteredCount)
	}
	if math.Abs(c.FilteredDuration-30.05) > 1e-9 {
		t.Fatalf("expected 30.05s filtered, got %v", c.FilteredDuration)
	}
	entry, err := c.Entry(0)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.AudioFile != "clips/b.wav" || entry.Text != "kept" {
		t.Fatalf("unexpected first entry: %+v", entry)
	}
}

func TestLoadErrorsOnMissingDurationWhenFiltering(t *testing.T) {
	path := writeManifest(t, `{"audio_filepath":"a.wav","text":"hi"}`)
	if _, err := Load([]string{path}, Options{MaxDuration: 10}); err == nil {
		t.Fatal("expected error for missing duration under filtering")
	}
	// Without bounds the same manifest loads.
	c, err := Load([]string{path}, Options{})
	if err != nil {
		t.Fatalf("load without bounds: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestLoadCapsUtterances(t *testing.T) {
	path := writeManifest(t,
		line("a.wav", 1, 0, "one"),
		line("b.wav", 1, 0, "two"),
		line("c.wav", 1, 0, "three"),
	)
	c, err := Load([]string{path}, Options{MaxUtterances: 2})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected utterance cap of 2, got %d", c.Len())
	}
}

func TestLoadIndexesMultipleOffsetsPerFile(t *testing.T) {
	path := writeManifest(t,
		line("session.wav", 1.5, 0, "first"),
		line("other.wav", 1.0, 0, "middle"),
		line("session.wav", 2.5, 1.5, "second"),
	)
	c, err := Load([]string{path}, Options{IndexByFileID: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	indexes, ok := c.Offsets("session")
	if !ok {
		t.Fatal("expected session file id to be indexed")
	}
	if len(indexes) != 2 || indexes[0] != 0 || indexes[1] != 2 {
		t.Fatalf("unexpected offset indexes: %v", indexes)
	}
	if !c.HasFileID("other") {
		t.Fatal("expected other file id to be indexed")
	}
	if c.HasFileID("missing") {
		t.Fatal("did not expect unknown file id")
	}
}

func TestLoadRejectsRecordWithoutTranscript(t *testing.T) {
	path := writeManifest(t, `{"audio_filepath":"a.wav","duration":1.0}`)
	if _, err := Load([]string{path}, Options{}); err == nil {
		t.Fatal("expected error for record without transcript")
	}
}

func TestLoadAcceptsPretokenizedRecords(t *testing.T) {
	path := writeManifest(t, `{"audio_filepath":"a.wav","duration":1.0,"token_labels":[4,5,6]}`)
	c, err := Load([]string{path}, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entry, err := c.Entry(0)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if len(entry.Tokens) != 3 || entry.Tokens[0] != 4 {
		t.Fatalf("unexpected tokens: %v", entry.Tokens)
	}
}

func TestSplitPaths(t *testing.T) {
	paths := SplitPaths(" a.json, b.json ,,c.json")
	if len(paths) != 3 || paths[0] != "a.json" || paths[2] != "c.json" {
		t.Fatalf("unexpected split: %v", paths)
	}
}

func TestFileIDFor(t *testing.T) {
	if got := FileIDFor("/data/shards/utt_00042.wav"); got != "utt_00042" {
		t.Fatalf("unexpected file id %q", got)
	}
}

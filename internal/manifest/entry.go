package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one utterance described by a manifest record. Entries are
// immutable once loaded.
type Entry struct {
	// AudioFile is the path to the audio media, relative to the manifest
	// consumer's working layout or absolute.
	AudioFile string
	// VideoFile is the path to the paired video media; empty when the
	// utterance is audio-only.
	VideoFile string
	// Text is the transcript after resolving text_filepath indirection.
	Text string
	// Tokens holds pre-tokenized transcript ids when the manifest carries
	// them instead of text.
	Tokens []int32
	// Duration is the utterance length in seconds; nil when the record
	// omitted it.
	Duration *float64
	// Offset is the utterance start within the media file in seconds.
	Offset float64
	// Speaker is free-form speaker metadata.
	Speaker string
	// OrigSampleRate records the media's native sample rate when it differs
	// from the pipeline rate. Zero means unknown.
	OrigSampleRate int
}

// record mirrors the manifest JSON schema, including the field aliases the
// corpus tooling emits.
type record struct {
	AudioFilepath  string   `json:"audio_filepath"`
	AudioFile      string   `json:"audio_file"`
	VideoFilepath  string   `json:"video_filepath"`
	VideoFile      string   `json:"video_file"`
	Text           string   `json:"text"`
	NormalizedText string   `json:"normalized_text"`
	TextFilepath   string   `json:"text_filepath"`
	Tokens         []int32  `json:"token_labels"`
	Duration       *float64 `json:"duration"`
	Offset         *float64 `json:"offset"`
	Speaker        string   `json:"speaker"`
	OrigSampleRate int      `json:"orig_sample_rate"`
}

func (r record) toEntry() (Entry, error) {
	entry := Entry{
		AudioFile:      firstNonEmpty(r.AudioFilepath, r.AudioFile),
		VideoFile:      firstNonEmpty(r.VideoFilepath, r.VideoFile),
		Duration:       r.Duration,
		Speaker:        strings.TrimSpace(r.Speaker),
		OrigSampleRate: r.OrigSampleRate,
		Tokens:         r.Tokens,
	}
	if entry.AudioFile == "" {
		return Entry{}, fmt.Errorf("manifest: record has no audio filepath")
	}
	if r.Offset != nil {
		entry.Offset = *r.Offset
	}

	text := firstNonEmpty(r.NormalizedText, r.Text)
	switch {
	case text != "":
		entry.Text = text
	case r.TextFilepath != "":
		payload, err := os.ReadFile(r.TextFilepath)
		if err != nil {
			return Entry{}, fmt.Errorf("manifest: read transcript %q: %w", r.TextFilepath, err)
		}
		entry.Text = strings.TrimSpace(string(payload))
	case len(r.Tokens) > 0:
		// Pre-tokenized record; nothing to resolve.
	default:
		return Entry{}, fmt.Errorf("manifest: record for %q has no transcript", entry.AudioFile)
	}
	return entry, nil
}

// FileID returns the identifier that matches this entry against a streamed
// tar member: the audio basename with its extension removed.
func (e Entry) FileID() string {
	return FileIDFor(e.AudioFile)
}

// FileIDFor derives the file id for an arbitrary media path.
func FileIDFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

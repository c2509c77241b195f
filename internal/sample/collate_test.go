package sample

import (
	"errors"
	"testing"
)

func makeFrames(t *testing.T, num, height, width, channels int, fill uint8) Frames {
	t.Helper()
	f := Frames{
		Num:      num,
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     make([]uint8, num*height*width*channels),
	}
	for i := range f.Data {
		f.Data[i] = fill
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("frames invalid: %v", err)
	}
	return f
}

func TestCollatePadsToBatchMaxima(t *testing.T) {
	samples := []Sample{
		{
			Audio:  []float32{0.1, 0.2, 0.3, 0.4},
			Video:  makeFrames(t, 2, 2, 2, 3, 7),
			Tokens: []int32{5, 6},
		},
		{
			Audio:  []float32{0.5, 0.6},
			Video:  makeFrames(t, 3, 2, 2, 3, 9),
			Tokens: []int32{1, 2, 3, 4, 5},
		},
	}

	batch, err := Collate(samples, 0)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}

	if batch.Size != 2 {
		t.Fatalf("expected batch size 2, got %d", batch.Size)
	}
	if batch.MaxAudioLen != 4 || batch.MaxVideoLen != 3 || batch.MaxTokenLen != 5 {
		t.Fatalf("unexpected maxima: audio=%d video=%d tokens=%d", batch.MaxAudioLen, batch.MaxVideoLen, batch.MaxTokenLen)
	}
	if len(batch.Audio) != 2*4 {
		t.Fatalf("expected dense audio of 8 samples, got %d", len(batch.Audio))
	}
	if len(batch.Video) != 2*3*2*2*3 {
		t.Fatalf("expected dense video of 72 bytes, got %d", len(batch.Video))
	}
	if len(batch.Tokens) != 2*5 {
		t.Fatalf("expected dense tokens of 10 ids, got %d", len(batch.Tokens))
	}

	if got := batch.AudioLens[1]; got != 2 {
		t.Fatalf("expected audio length 2 for second row, got %d", got)
	}
	if got := batch.VideoLens[0]; got != 2 {
		t.Fatalf("expected video length 2 for first row, got %d", got)
	}
	if got := batch.TokenLens[0]; got != 2 {
		t.Fatalf("expected token length 2 for first row, got %d", got)
	}

	// Second row audio padded with zeros past length 2.
	row := batch.AudioRow(1)
	if row[0] != 0.5 || row[1] != 0.6 || row[2] != 0 || row[3] != 0 {
		t.Fatalf("unexpected padded audio row: %v", row)
	}
}

func TestCollateTokenPaddingUsesPadID(t *testing.T) {
	samples := []Sample{
		{Audio: []float32{1}, Video: makeFrames(t, 1, 1, 1, 3, 1), Tokens: []int32{9}},
		{Audio: []float32{1, 2}, Video: makeFrames(t, 1, 1, 1, 3, 1), Tokens: []int32{7, 8, 9}},
	}

	batch, err := Collate(samples, 42)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}
	row := batch.TokenRow(0)
	if row[0] != 9 || row[1] != 42 || row[2] != 42 {
		t.Fatalf("expected pad id 42 past transcript, got %v", row)
	}
}

func TestCollateSampleIDs(t *testing.T) {
	samples := []Sample{
		{Audio: []float32{1}, Video: makeFrames(t, 1, 1, 1, 3, 0), Tokens: []int32{1}, ID: 11, HasID: true},
		{Audio: []float32{1}, Video: makeFrames(t, 1, 1, 1, 3, 0), Tokens: []int32{1}, ID: 12, HasID: true},
	}
	batch, err := Collate(samples, 0)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}
	if len(batch.SampleIDs) != 2 || batch.SampleIDs[0] != 11 || batch.SampleIDs[1] != 12 {
		t.Fatalf("unexpected sample ids: %v", batch.SampleIDs)
	}
}

func TestCollateRejectsMixedIDPresence(t *testing.T) {
	samples := []Sample{
		{Audio: []float32{1}, Video: makeFrames(t, 1, 1, 1, 3, 0), Tokens: []int32{1}, ID: 1, HasID: true},
		{Audio: []float32{1}, Video: makeFrames(t, 1, 1, 1, 3, 0), Tokens: []int32{1}},
	}
	if _, err := Collate(samples, 0); err == nil {
		t.Fatal("expected error for mixed id presence")
	}
}

func TestCollateRejectsEmptyBatch(t *testing.T) {
	if _, err := Collate(nil, 0); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestCollateRejectsGeometryMismatch(t *testing.T) {
	samples := []Sample{
		{Audio: []float32{1}, Video: makeFrames(t, 1, 2, 2, 3, 0), Tokens: []int32{1}},
		{Audio: []float32{1}, Video: makeFrames(t, 1, 4, 4, 3, 0), Tokens: []int32{1}},
	}
	if _, err := Collate(samples, 0); err == nil {
		t.Fatal("expected error for frame geometry mismatch")
	}
}

func TestCollateEmptyAudioRowPadsToZero(t *testing.T) {
	samples := []Sample{
		{Audio: nil, Tokens: []int32{1}},
		{Audio: []float32{0.5, 0.6, 0.7}, Tokens: []int32{2}},
	}
	batch, err := Collate(samples, 0)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}
	if batch.AudioLens[0] != 0 || batch.AudioLens[1] != 3 {
		t.Fatalf("audio lens = %v, want [0 3]", batch.AudioLens)
	}
	for i, v := range batch.AudioRow(0) {
		if v != 0 {
			t.Fatalf("empty row position %d = %v, want 0", i, v)
		}
	}
	if row := batch.AudioRow(1); row[0] != 0.5 || row[2] != 0.7 {
		t.Fatalf("unexpected second row: %v", row)
	}
}

func TestCollateAllEmptyAudioLeavesBufferNil(t *testing.T) {
	samples := []Sample{
		{Tokens: []int32{1}},
		{Tokens: []int32{2}},
	}
	batch, err := Collate(samples, 0)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}
	if batch.Audio != nil || batch.MaxAudioLen != 0 {
		t.Fatalf("expected nil audio buffer, got len %d max %d", len(batch.Audio), batch.MaxAudioLen)
	}
	if batch.AudioLens[0] != 0 || batch.AudioLens[1] != 0 {
		t.Fatalf("audio lens = %v, want zeros", batch.AudioLens)
	}
}

func TestCollateAudioOnlyBatch(t *testing.T) {
	samples := []Sample{
		{Audio: []float32{1, 2, 3}, Tokens: []int32{1}},
		{Audio: []float32{1}, Tokens: []int32{2, 3}},
	}
	batch, err := Collate(samples, 0)
	if err != nil {
		t.Fatalf("collate: %v", err)
	}
	if batch.Video != nil || batch.VideoLens != nil {
		t.Fatal("expected video buffers to be nil for audio-only batch")
	}
	if batch.MaxAudioLen != 3 {
		t.Fatalf("expected max audio length 3, got %d", batch.MaxAudioLen)
	}
}

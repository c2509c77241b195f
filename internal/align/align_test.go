package align

import (
	"testing"

	"avstream/internal/sample"
)

func clip(t *testing.T, frames int) sample.Frames {
	t.Helper()
	f := sample.Frames{Num: frames, Height: 2, Width: 2, Channels: 3}
	f.Data = make([]uint8, frames*f.FrameSize())
	for i := range f.Data {
		f.Data[i] = 0xAA
	}
	return f
}

func TestAlignPadsVideoWhenAudioImpliesMoreFrames(t *testing.T) {
	// 3200 samples imply 3200/640+1 = 6 frames; clip has 3.
	audio := make([]float32, 3200)
	video := clip(t, 3)

	gotAudio, gotVideo := Align(audio, video)

	if len(gotAudio) != 3200 {
		t.Fatalf("audio should be untouched, got %d samples", len(gotAudio))
	}
	if gotVideo.Num != 6 {
		t.Fatalf("expected 6 frames after padding, got %d", gotVideo.Num)
	}
	// 3 pad frames split 1 left, 2 right.
	size := video.FrameSize()
	if gotVideo.Data[0] != 0 {
		t.Fatal("expected zero frame on the left")
	}
	if gotVideo.Data[1*size] != 0xAA {
		t.Fatal("expected original first frame at index 1")
	}
	if gotVideo.Data[4*size] != 0 || gotVideo.Data[5*size] != 0 {
		t.Fatal("expected two zero frames on the right")
	}
	if err := gotVideo.Validate(); err != nil {
		t.Fatalf("padded clip invalid: %v", err)
	}
}

func TestAlignPadsAudioWhenVideoIsLonger(t *testing.T) {
	// 10 frames require (10-1)*640 = 5760 samples; waveform has 5000.
	audio := make([]float32, 5000)
	for i := range audio {
		audio[i] = 1
	}
	video := clip(t, 10)

	gotAudio, gotVideo := Align(audio, video)

	if gotVideo.Num != 10 {
		t.Fatalf("video should be untouched, got %d frames", gotVideo.Num)
	}
	if len(gotAudio) != 5760 {
		t.Fatalf("expected 5760 samples after padding, got %d", len(gotAudio))
	}
	// 760 pad samples split 380 left, 380 right.
	if gotAudio[379] != 0 || gotAudio[380] != 1 {
		t.Fatalf("unexpected left padding boundary: %v %v", gotAudio[379], gotAudio[380])
	}
	if gotAudio[5379] != 1 || gotAudio[5380] != 0 {
		t.Fatalf("unexpected right padding boundary: %v %v", gotAudio[5379], gotAudio[5380])
	}
}

func TestAlignOddPaddingFavorsRight(t *testing.T) {
	// 640 samples imply 2 frames; clip has 1, so one zero frame lands right.
	audio := make([]float32, 640)
	video := clip(t, 1)

	_, gotVideo := Align(audio, video)

	if gotVideo.Num != 2 {
		t.Fatalf("expected 2 frames, got %d", gotVideo.Num)
	}
	size := video.FrameSize()
	if gotVideo.Data[0] != 0xAA {
		t.Fatal("expected original frame to stay left when padding is odd")
	}
	if gotVideo.Data[size] != 0 {
		t.Fatal("expected zero frame on the right")
	}
}

func TestAlignNoOpWhenConformant(t *testing.T) {
	// 639 samples imply exactly 1 frame.
	audio := make([]float32, 639)
	video := clip(t, 1)

	gotAudio, gotVideo := Align(audio, video)
	if len(gotAudio) != 639 || gotVideo.Num != 1 {
		t.Fatalf("expected no-op alignment, got %d samples and %d frames", len(gotAudio), gotVideo.Num)
	}
}

func TestExpectedFrames(t *testing.T) {
	cases := []struct {
		audioLen int
		want     int
	}{
		{0, 1},
		{639, 1},
		{640, 2},
		{6400, 11},
	}
	for _, tc := range cases {
		if got := ExpectedFrames(tc.audioLen); got != tc.want {
			t.Fatalf("ExpectedFrames(%d) = %d, want %d", tc.audioLen, got, tc.want)
		}
	}
}

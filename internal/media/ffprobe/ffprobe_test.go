package ffprobe

import (
	"testing"
)

func TestResultStreamAccessors(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", SampleRate: "16000", Channels: 1, Duration: "2.5"},
			{CodecType: "video", Width: 96, Height: 96, AvgFrameRate: "25/1", NBFrames: "62"},
		},
		Format: Format{Duration: "2.5"},
	}

	video, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if video.Width != 96 || video.Height != 96 {
		t.Fatalf("unexpected geometry %dx%d", video.Width, video.Height)
	}
	if fps := video.FrameRate(); fps != 25 {
		t.Fatalf("expected 25 fps, got %v", fps)
	}
	if frames := video.FrameCount(); frames != 62 {
		t.Fatalf("expected 62 frames, got %d", frames)
	}

	audio, ok := result.AudioStream()
	if !ok {
		t.Fatal("expected an audio stream")
	}
	if audio.SampleRateHz() != 16000 {
		t.Fatalf("unexpected sample rate %d", audio.SampleRateHz())
	}
	if audio.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected duration %v", audio.DurationSeconds())
	}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected container duration %v", result.DurationSeconds())
	}
}

func TestFrameRateFallsBackToRawRate(t *testing.T) {
	s := Stream{AvgFrameRate: "0/0", RFrameRate: "30000/1001"}
	fps := s.FrameRate()
	if fps < 29.96 || fps > 29.98 {
		t.Fatalf("expected NTSC rate, got %v", fps)
	}
}

func TestFrameRateHandlesGarbage(t *testing.T) {
	cases := []Stream{
		{AvgFrameRate: ""},
		{AvgFrameRate: "abc"},
		{AvgFrameRate: "1/0"},
		{AvgFrameRate: "-25/1"},
	}
	for _, s := range cases {
		if fps := s.FrameRate(); fps != 0 {
			t.Fatalf("expected 0 fps for %q, got %v", s.AvgFrameRate, fps)
		}
	}
}

func TestMissingStreams(t *testing.T) {
	var result Result
	if _, ok := result.VideoStream(); ok {
		t.Fatal("did not expect a video stream")
	}
	if _, ok := result.AudioStream(); ok {
		t.Fatal("did not expect an audio stream")
	}
}

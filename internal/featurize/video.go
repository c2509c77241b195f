package featurize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"avstream/internal/media/ffprobe"
	"avstream/internal/sample"
)

const frameChannels = 3 // rgb24

// VideoOptions configures frame extraction.
type VideoOptions struct {
	// FFmpegBinary overrides the ffmpeg executable name.
	FFmpegBinary string
	// FFprobeBinary overrides the ffprobe executable name.
	FFprobeBinary string
}

// Video extracts RGB24 frame clips from video media via ffmpeg.
type Video struct {
	ffmpeg  string
	ffprobe string
}

// NewVideo builds a video featurizer.
func NewVideo(opts VideoOptions) *Video {
	ffmpeg := strings.TrimSpace(opts.FFmpegBinary)
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	probe := strings.TrimSpace(opts.FFprobeBinary)
	if probe == "" {
		probe = "ffprobe"
	}
	return &Video{ffmpeg: ffmpeg, ffprobe: probe}
}

// Process extracts the clip's frames, applying the offset/duration window in
// seconds. A duration of 0 keeps everything from offset onward.
func (v *Video) Process(ctx context.Context, path string, offset, duration float64) (sample.Frames, error) {
	probe, err := ffprobe.Inspect(ctx, v.ffprobe, path)
	if err != nil {
		return sample.Frames{}, fmt.Errorf("featurize: probe video %q: %w", path, err)
	}
	stream, ok := probe.VideoStream()
	if !ok {
		return sample.Frames{}, fmt.Errorf("featurize: %q has no video stream", path)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return sample.Frames{}, fmt.Errorf("featurize: %q reports invalid geometry %dx%d", path, stream.Width, stream.Height)
	}

	args := []string{"-v", "error", "-nostdin"}
	if offset > 0 {
		args = append(args, "-ss", formatSeconds(offset))
	}
	if duration > 0 {
		args = append(args, "-t", formatSeconds(duration))
	}
	args = append(args, "-i", path, "-f", "rawvideo", "-pix_fmt", "rgb24", "pipe:1")

	cmd := exec.CommandContext(ctx, v.ffmpeg, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return sample.Frames{}, fmt.Errorf("featurize: extract frames from %q: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	payload := stdout.Bytes()
	frameSize := stream.Width * stream.Height * frameChannels
	if len(payload)%frameSize != 0 {
		return sample.Frames{}, fmt.Errorf("featurize: %q yielded %d bytes, not a multiple of frame size %d", path, len(payload), frameSize)
	}

	frames := sample.Frames{
		Data:     payload,
		Num:      len(payload) / frameSize,
		Height:   stream.Height,
		Width:    stream.Width,
		Channels: frameChannels,
	}
	if frames.Num == 0 {
		return sample.Frames{}, fmt.Errorf("featurize: %q yielded no frames in window", path)
	}
	return frames, nil
}

// ProcessBytes extracts frames from video media held in memory. The payload
// is staged to a temporary file because container formats need seekable
// input for reliable demuxing.
func (v *Video) ProcessBytes(ctx context.Context, payload []byte, offset, duration float64) (sample.Frames, error) {
	tmp, err := os.CreateTemp("", "avstream-clip-*.mp4")
	if err != nil {
		return sample.Frames{}, fmt.Errorf("featurize: stage video bytes: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return sample.Frames{}, fmt.Errorf("featurize: stage video bytes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return sample.Frames{}, fmt.Errorf("featurize: stage video bytes: %w", err)
	}

	return v.Process(ctx, tmp.Name(), offset, duration)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 6, 64)
}

package align

import "avstream/internal/sample"

const (
	// HopLength is the spectrogram hop in waveform samples.
	HopLength = 160
	// DownsampleFactor is the combined time reduction of the two encoder
	// pooling stages.
	DownsampleFactor = 2 * 2
	// SamplesPerFrame is the number of waveform samples one video frame
	// must span after downsampling.
	SamplesPerFrame = HopLength * DownsampleFactor
)

// ExpectedFrames returns the number of video frames implied by a waveform of
// audioLen samples.
func ExpectedFrames(audioLen int) int {
	return audioLen/SamplesPerFrame + 1
}

// Align zero-pads the shorter modality so audio and video cover the same
// temporal window. When the waveform implies at least as many frames as the
// clip holds, the clip gains zero frames; otherwise the waveform gains zero
// samples. Padding is split between left and right, the right half one unit
// larger when the total is odd. Inputs are never mutated.
func Align(audio []float32, video sample.Frames) ([]float32, sample.Frames) {
	padding := ExpectedFrames(len(audio)) - video.Num
	if padding >= 0 {
		return audio, padFrames(video, padding/2, padding/2+padding%2)
	}

	padding = (video.Num-1)*SamplesPerFrame - len(audio)
	return padAudio(audio, padding/2, padding/2+padding%2), video
}

func padAudio(audio []float32, left, right int) []float32 {
	if left == 0 && right == 0 {
		return audio
	}
	out := make([]float32, left+len(audio)+right)
	copy(out[left:], audio)
	return out
}

func padFrames(video sample.Frames, left, right int) sample.Frames {
	if left == 0 && right == 0 {
		return video
	}
	size := video.FrameSize()
	out := sample.Frames{
		Num:      left + video.Num + right,
		Height:   video.Height,
		Width:    video.Width,
		Channels: video.Channels,
	}
	out.Data = make([]uint8, out.Num*size)
	copy(out.Data[left*size:], video.Data)
	return out
}

package sample

import (
	"errors"
	"fmt"
)

// Frames holds a clip of video as a dense (T, H, W, C) uint8 buffer in
// row-major order. A zero Frames value means the modality is absent.
type Frames struct {
	Data     []uint8
	Num      int
	Height   int
	Width    int
	Channels int
}

// FrameSize returns the number of bytes occupied by a single frame.
func (f Frames) FrameSize() int {
	return f.Height * f.Width * f.Channels
}

// Empty reports whether the clip carries no frames.
func (f Frames) Empty() bool {
	return f.Num == 0
}

// Frame returns the byte slice backing frame index i.
func (f Frames) Frame(i int) ([]uint8, error) {
	if i < 0 || i >= f.Num {
		return nil, fmt.Errorf("sample: frame index %d out of range [0,%d)", i, f.Num)
	}
	size := f.FrameSize()
	return f.Data[i*size : (i+1)*size], nil
}

// Validate checks that the buffer length matches the declared geometry.
func (f Frames) Validate() error {
	if f.Num == 0 {
		if len(f.Data) != 0 {
			return errors.New("sample: frames declare zero length but carry data")
		}
		return nil
	}
	if f.Height <= 0 || f.Width <= 0 || f.Channels <= 0 {
		return fmt.Errorf("sample: invalid frame geometry %dx%dx%d", f.Height, f.Width, f.Channels)
	}
	if want := f.Num * f.FrameSize(); len(f.Data) != want {
		return fmt.Errorf("sample: frame buffer holds %d bytes, geometry requires %d", len(f.Data), want)
	}
	return nil
}

// Sample is one utterance ready for batching. Audio is a mono waveform,
// Video the paired frame clip, Tokens the encoded transcript. ID is only
// meaningful when HasID is set; collation requires ID presence to be uniform
// across a batch.
type Sample struct {
	Audio  []float32
	Video  Frames
	Tokens []int32
	ID     int32
	HasID  bool
}

// AudioLen returns the waveform length in samples.
func (s Sample) AudioLen() int { return len(s.Audio) }

// VideoLen returns the clip length in frames.
func (s Sample) VideoLen() int { return s.Video.Num }

// TokenLen returns the transcript length in tokens.
func (s Sample) TokenLen() int { return len(s.Tokens) }

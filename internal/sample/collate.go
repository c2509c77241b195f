package sample

import (
	"errors"
	"fmt"
)

// Batch is the dense, padded form of a slice of samples. Audio, Video and
// Tokens are row-major buffers shaped (Size, MaxAudioLen), (Size, MaxVideoLen,
// FrameHeight, FrameWidth, FrameChannels) and (Size, MaxTokenLen); a nil
// buffer means the modality was absent from every sample. The length vectors
// hold the pre-padding lengths for masking.
type Batch struct {
	Audio     []float32
	AudioLens []int64

	Video     []uint8
	VideoLens []int64

	Tokens    []int32
	TokenLens []int64

	SampleIDs []int32

	Size        int
	MaxAudioLen int
	MaxVideoLen int
	MaxTokenLen int

	FrameHeight   int
	FrameWidth    int
	FrameChannels int

	PadID int32
}

// ErrEmptyBatch is returned when Collate receives no samples.
var ErrEmptyBatch = errors.New("sample: collate: empty batch")

// Collate pads each modality independently to the batch maximum and stacks
// the results. Token rows are padded with padID, audio with zero samples and
// video with zero frames. Audio is always present; a sample whose window came
// back empty collates as a zero-length row. Samples must agree on whether
// they carry a sample id and on whether video is present; video geometry must
// match across the batch.
func Collate(samples []Sample, padID int32) (Batch, error) {
	if len(samples) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	hasID := samples[0].HasID
	hasVideo := !samples[0].Video.Empty()

	var maxAudio, maxVideo, maxTokens int
	var height, width, channels int

	for i, s := range samples {
		if s.HasID != hasID {
			return Batch{}, fmt.Errorf("sample: collate: sample %d id presence differs from batch", i)
		}
		if !s.Video.Empty() != hasVideo {
			return Batch{}, fmt.Errorf("sample: collate: sample %d video presence differs from batch", i)
		}
		if s.TokenLen() == 0 {
			return Batch{}, fmt.Errorf("sample: collate: sample %d has no tokens", i)
		}
		if err := s.Video.Validate(); err != nil {
			return Batch{}, fmt.Errorf("sample: collate: sample %d: %w", i, err)
		}
		if hasVideo {
			if height == 0 {
				height, width, channels = s.Video.Height, s.Video.Width, s.Video.Channels
			} else if s.Video.Height != height || s.Video.Width != width || s.Video.Channels != channels {
				return Batch{}, fmt.Errorf(
					"sample: collate: sample %d frame geometry %dx%dx%d differs from batch %dx%dx%d",
					i, s.Video.Height, s.Video.Width, s.Video.Channels, height, width, channels,
				)
			}
		}
		if s.AudioLen() > maxAudio {
			maxAudio = s.AudioLen()
		}
		if s.VideoLen() > maxVideo {
			maxVideo = s.VideoLen()
		}
		if s.TokenLen() > maxTokens {
			maxTokens = s.TokenLen()
		}
	}

	batch := Batch{
		Size:        len(samples),
		MaxAudioLen: maxAudio,
		MaxVideoLen: maxVideo,
		MaxTokenLen: maxTokens,
		PadID:       padID,
		TokenLens:   make([]int64, len(samples)),
		Tokens:      make([]int32, len(samples)*maxTokens),
	}

	batch.AudioLens = make([]int64, len(samples))
	if maxAudio > 0 {
		batch.Audio = make([]float32, len(samples)*maxAudio)
	}
	if hasVideo {
		frameSize := height * width * channels
		batch.Video = make([]uint8, len(samples)*maxVideo*frameSize)
		batch.VideoLens = make([]int64, len(samples))
		batch.FrameHeight = height
		batch.FrameWidth = width
		batch.FrameChannels = channels
	}
	if hasID {
		batch.SampleIDs = make([]int32, len(samples))
	}

	for i, s := range samples {
		if maxAudio > 0 {
			copy(batch.Audio[i*maxAudio:], s.Audio)
		}
		batch.AudioLens[i] = int64(s.AudioLen())
		if hasVideo {
			rowSize := maxVideo * height * width * channels
			copy(batch.Video[i*rowSize:], s.Video.Data)
			batch.VideoLens[i] = int64(s.VideoLen())
		}
		row := batch.Tokens[i*maxTokens : (i+1)*maxTokens]
		n := copy(row, s.Tokens)
		for j := n; j < maxTokens; j++ {
			row[j] = padID
		}
		batch.TokenLens[i] = int64(s.TokenLen())
		if hasID {
			batch.SampleIDs[i] = s.ID
		}
	}

	return batch, nil
}

// AudioRow returns the padded waveform for batch row i.
func (b Batch) AudioRow(i int) []float32 {
	if b.Audio == nil || i < 0 || i >= b.Size {
		return nil
	}
	return b.Audio[i*b.MaxAudioLen : (i+1)*b.MaxAudioLen]
}

// TokenRow returns the padded token sequence for batch row i.
func (b Batch) TokenRow(i int) []int32 {
	if i < 0 || i >= b.Size {
		return nil
	}
	return b.Tokens[i*b.MaxTokenLen : (i+1)*b.MaxTokenLen]
}

// VideoRow returns the padded frame clip for batch row i.
func (b Batch) VideoRow(i int) []uint8 {
	if b.Video == nil || i < 0 || i >= b.Size {
		return nil
	}
	rowSize := b.MaxVideoLen * b.FrameHeight * b.FrameWidth * b.FrameChannels
	return b.Video[i*rowSize : (i+1)*rowSize]
}

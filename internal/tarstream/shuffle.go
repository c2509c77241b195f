package tarstream

import (
	"errors"
	"io"
	"math/rand"
)

// Shuffle wraps a Source with a lookahead window: up to window items are
// buffered and each Next returns one chosen uniformly from the buffer. A
// window below 2 passes the source through untouched.
type Shuffle struct {
	source Source
	window int
	rng    *rand.Rand
	buffer []Item
	filled bool
	closed bool
}

// NewShuffle builds a shuffling wrapper with a deterministic seed so ranks
// can derive disjoint orderings from rank-offset seeds.
func NewShuffle(source Source, window int, seed int64) *Shuffle {
	return &Shuffle{
		source: source,
		window: window,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns a pseudo-randomly chosen buffered item, refilling the window
// from the source as items are taken.
func (s *Shuffle) Next() (Item, error) {
	if s.closed {
		return Item{}, io.EOF
	}
	if s.window < 2 {
		return s.source.Next()
	}

	if !s.filled {
		for len(s.buffer) < s.window {
			item, err := s.source.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return Item{}, err
			}
			s.buffer = append(s.buffer, item)
		}
		s.filled = true
	}

	if len(s.buffer) == 0 {
		s.closed = true
		return Item{}, io.EOF
	}

	idx := s.rng.Intn(len(s.buffer))
	out := s.buffer[idx]

	replacement, err := s.source.Next()
	switch {
	case err == nil:
		s.buffer[idx] = replacement
	case errors.Is(err, io.EOF):
		last := len(s.buffer) - 1
		s.buffer[idx] = s.buffer[last]
		s.buffer = s.buffer[:last]
	default:
		return Item{}, err
	}
	return out, nil
}

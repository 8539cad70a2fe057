package lpc

import (
	"fmt"
	"iter"
)

// Frame is a fixed-length slice of a waveform. Samples past the end of the
// waveform are zero.
type Frame struct {
	Index   int       `json:"index"`
	Start   int       `json:"start"`
	Samples []float64 `json:"-"`
}

// Framer slices a sample sequence into overlapping frames of equal length.
// It never copies or mutates the source samples until a frame is requested.
type Framer struct {
	samples []float64
	length  int
	shift   int
}

// NewFramer creates a framer with frame length and shift in samples.
// The shift must not exceed the length, otherwise samples would be skipped.
func NewFramer(samples []float64, length, shift int) (*Framer, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: frame length must be positive: %d", ErrInvalidParameter, length)
	}
	if shift <= 0 {
		return nil, fmt.Errorf("%w: frame shift must be positive: %d", ErrInvalidParameter, shift)
	}
	if shift > length {
		return nil, fmt.Errorf("%w: frame shift (%d) exceeds frame length (%d)", ErrInvalidParameter, shift, length)
	}

	return &Framer{
		samples: samples,
		length:  length,
		shift:   shift,
	}, nil
}

// NumFrames returns ceil(len(samples) / shift).
func (f *Framer) NumFrames() int {
	return (len(f.samples) + f.shift - 1) / f.shift
}

// PaddedLength is the length of the zero-padded waveform the frames cover:
// numFrames*shift + length - shift.
func (f *Framer) PaddedLength() int {
	n := f.NumFrames()
	if n == 0 {
		return 0
	}
	return n*f.shift + f.length - f.shift
}

// Padding returns how many zeros are appended after the last real sample.
func (f *Framer) Padding() int {
	return f.PaddedLength() - len(f.samples)
}

// Length returns the frame length in samples.
func (f *Framer) Length() int { return f.length }

// Shift returns the frame shift in samples.
func (f *Framer) Shift() int { return f.shift }

// Frame returns frame i in a newly allocated buffer.
func (f *Framer) Frame(i int) Frame {
	start := i * f.shift
	buf := make([]float64, f.length)
	if start < len(f.samples) {
		copy(buf, f.samples[start:min(start+f.length, len(f.samples))])
	}

	return Frame{
		Index:   i,
		Start:   start,
		Samples: buf,
	}
}

// All yields every frame in order. The sequence can be ranged over any
// number of times.
func (f *Framer) All() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := range f.NumFrames() {
			if !yield(f.Frame(i)) {
				return
			}
		}
	}
}

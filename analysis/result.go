package analysis

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-formants/algorithms/lpc"
)

// Waveform is a mono sample sequence and its sample rate.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Status records how a frame's analysis ended.
type Status string

const (
	StatusOK          Status = "ok"
	StatusSingular    Status = "singular"
	StatusRootFailure Status = "root_failure"
	StatusInvalid     Status = "invalid"
)

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, lpc.ErrSingularSystem):
		return StatusSingular
	case errors.Is(err, lpc.ErrInvalidParameter):
		return StatusInvalid
	default:
		return StatusRootFailure
	}
}

// FrameResult is the formant set of one frame.
type FrameResult struct {
	Index        int           `json:"index"`
	Start        int           `json:"start"` // Offset of the first sample
	Time         float64       `json:"time"`  // Start in seconds
	Formants     []lpc.Formant `json:"formants"`
	Coefficients []float64     `json:"coefficients,omitempty"`
	Status       Status        `json:"status"`
	Reason       string        `json:"reason,omitempty"`

	// Err is the numerical failure behind a non-OK status.
	Err error `json:"-"`
}

// Failed reports whether the frame could not be analyzed, as opposed to
// being analyzed and yielding no formants.
func (f FrameResult) Failed() bool {
	return f.Status != StatusOK
}

// Frequencies returns the formant frequencies in ascending order.
func (f FrameResult) Frequencies() []float64 {
	return lpc.Frequencies(f.Formants)
}

// Summary aggregates a run.
type Summary struct {
	Frames       int     `json:"frames"`
	Failed       int     `json:"failed"`
	Empty        int     `json:"empty"` // Analyzed frames with no formants
	MeanFormants float64 `json:"mean_formants"`
	MeanF1       float64 `json:"mean_f1"` // Mean lowest formant over frames that have one
}

// Result is the output of a run, one FrameResult per frame in frame order.
type Result struct {
	SampleRate int           `json:"sample_rate"`
	Config     Config        `json:"config"`
	Frames     []FrameResult `json:"frames"`
	Summary    Summary       `json:"summary"`
}

// FormantSets returns the frequency list of every frame.
func (r *Result) FormantSets() [][]float64 {
	sets := make([][]float64, len(r.Frames))
	for i, f := range r.Frames {
		sets[i] = f.Frequencies()
	}
	return sets
}

func summarize(frames []FrameResult) Summary {
	s := Summary{Frames: len(frames)}

	var counts, f1 []float64
	for _, f := range frames {
		if f.Failed() {
			s.Failed++
			continue
		}
		if len(f.Formants) == 0 {
			s.Empty++
		} else {
			f1 = append(f1, f.Formants[0].Frequency)
		}
		counts = append(counts, float64(len(f.Formants)))
	}

	if len(counts) > 0 {
		s.MeanFormants = stat.Mean(counts, nil)
	}
	if len(f1) > 0 {
		s.MeanF1 = stat.Mean(f1, nil)
	}
	return s
}

package analysis

import (
	"fmt"
	"testing"

	"github.com/RyanBlaney/sonido-formants/algorithms/lpc"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{fmt.Errorf("frame 3: %w", lpc.ErrSingularSystem), StatusSingular},
		{lpc.ErrRootSolverFailure, StatusRootFailure},
		{fmt.Errorf("window: %w", lpc.ErrInvalidParameter), StatusInvalid},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	frames := []FrameResult{
		{Status: StatusOK, Formants: []lpc.Formant{{Frequency: 500}, {Frequency: 1500}}},
		{Status: StatusOK, Formants: []lpc.Formant{{Frequency: 700}}},
		{Status: StatusOK, Formants: []lpc.Formant{}},
		{Status: StatusSingular},
	}

	s := summarize(frames)
	if s.Frames != 4 || s.Failed != 1 || s.Empty != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.MeanFormants != 1 {
		t.Errorf("mean formants = %v, want 1", s.MeanFormants)
	}
	if s.MeanF1 != 600 {
		t.Errorf("mean F1 = %v, want 600", s.MeanF1)
	}
}

func TestResult_FormantSets(t *testing.T) {
	r := &Result{Frames: []FrameResult{
		{Formants: []lpc.Formant{{Frequency: 1}, {Frequency: 2}}},
		{},
	}}
	sets := r.FormantSets()
	if len(sets) != 2 || len(sets[0]) != 2 || len(sets[1]) != 0 {
		t.Fatalf("FormantSets = %v", sets)
	}
}

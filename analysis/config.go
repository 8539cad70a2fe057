package analysis

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-formants/algorithms/filters"
	"github.com/RyanBlaney/sonido-formants/algorithms/lpc"
	"github.com/RyanBlaney/sonido-formants/algorithms/windowing"
)

// Config holds the parameters of one analysis run.
type Config struct {
	// Core LPC framing
	Order       int `json:"order" yaml:"order"`               // LPC prediction order
	FrameLength int `json:"frame_length" yaml:"frame_length"` // Samples per frame
	FrameShift  int `json:"frame_shift" yaml:"frame_shift"`   // Samples between frame starts

	// Conditioning. The zero values reproduce plain rectangular frames of
	// the unfiltered waveform.
	DCCutoff    float64        `json:"dc_cutoff,omitempty" yaml:"dc_cutoff,omitempty"` // Hz, DC blocker over the whole waveform
	Window      windowing.Type `json:"window,omitempty" yaml:"window,omitempty"`
	PreEmphasis float64        `json:"pre_emphasis,omitempty" yaml:"pre_emphasis,omitempty"` // α in [0, 1)

	// PreEmphasisPreset picks α by content type (speech, narrowband,
	// wideband, general) instead of PreEmphasis.
	PreEmphasisPreset string `json:"pre_emphasis_preset,omitempty" yaml:"pre_emphasis_preset,omitempty"`

	// Numerical collaborators
	Solver     lpc.Method         `json:"solver,omitempty" yaml:"solver,omitempty"`           // "levinson" (default) or "cholesky"
	RootFinder lpc.RootFinderName `json:"root_finder,omitempty" yaml:"root_finder,omitempty"` // "companion" (default) or "durand-kerner"

	// Formant filtering, 0 disables
	MinFrequency float64 `json:"min_frequency,omitempty" yaml:"min_frequency,omitempty"` // Hz
	MaxBandwidth float64 `json:"max_bandwidth,omitempty" yaml:"max_bandwidth,omitempty"` // Hz

	// Workers bounds the frames analyzed concurrently. 0 uses GOMAXPROCS,
	// 1 runs sequentially.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultConfig returns order 12 with 512-sample frames every 256 samples.
func DefaultConfig() Config {
	return Config{
		Order:       12,
		FrameLength: 512,
		FrameShift:  256,
		Window:      windowing.Rectangular,
		Solver:      lpc.MethodLevinson,
		RootFinder:  lpc.RootFinderCompanion,
	}
}

// Validate reports every invalid field. The returned error matches
// lpc.ErrInvalidParameter.
func (c Config) Validate() error {
	var errs []error

	if c.Order <= 0 {
		errs = append(errs, fmt.Errorf("order must be positive: %d", c.Order))
	}
	if c.FrameLength <= 0 {
		errs = append(errs, fmt.Errorf("frame length must be positive: %d", c.FrameLength))
	}
	if c.FrameShift <= 0 {
		errs = append(errs, fmt.Errorf("frame shift must be positive: %d", c.FrameShift))
	}
	if c.FrameLength > 0 && c.Order >= c.FrameLength {
		errs = append(errs, fmt.Errorf("order (%d) must be less than frame length (%d)", c.Order, c.FrameLength))
	}
	if c.FrameLength > 0 && c.FrameShift > c.FrameLength {
		errs = append(errs, fmt.Errorf("frame shift (%d) must not exceed frame length (%d)", c.FrameShift, c.FrameLength))
	}
	if !windowing.Supported(c.Window) {
		errs = append(errs, fmt.Errorf("unknown window %q", c.Window))
	}
	if c.PreEmphasis < 0 || c.PreEmphasis >= 1 {
		errs = append(errs, fmt.Errorf("pre-emphasis must be in [0, 1): %g", c.PreEmphasis))
	}
	if c.PreEmphasisPreset != "" {
		if !filters.KnownContent(c.PreEmphasisPreset) {
			errs = append(errs, fmt.Errorf("unknown pre-emphasis preset %q", c.PreEmphasisPreset))
		}
		if c.PreEmphasis != 0 {
			errs = append(errs, errors.New("pre-emphasis and pre-emphasis preset are mutually exclusive"))
		}
	}
	if _, err := lpc.NewSolver(c.Solver); err != nil {
		errs = append(errs, err)
	}
	if _, err := lpc.NewRootFinder(c.RootFinder); err != nil {
		errs = append(errs, err)
	}
	if c.DCCutoff < 0 {
		errs = append(errs, fmt.Errorf("dc cutoff must not be negative: %g", c.DCCutoff))
	}
	if c.MinFrequency < 0 {
		errs = append(errs, fmt.Errorf("min frequency must not be negative: %g", c.MinFrequency))
	}
	if c.MaxBandwidth < 0 {
		errs = append(errs, fmt.Errorf("max bandwidth must not be negative: %g", c.MaxBandwidth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative: %d", c.Workers))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", lpc.ErrInvalidParameter, errors.Join(errs...))
}

// preEmphasisFilter returns the configured per-frame filter, nil when
// pre-emphasis is off.
func (c Config) preEmphasisFilter() (*filters.PreEmphasis, error) {
	switch {
	case c.PreEmphasisPreset != "":
		return filters.NewPreEmphasisForContent(c.PreEmphasisPreset), nil
	case c.PreEmphasis != 0:
		return filters.NewPreEmphasis(c.PreEmphasis)
	default:
		return nil, nil
	}
}

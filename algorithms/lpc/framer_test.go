package lpc

import (
	"errors"
	"testing"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestFramer_Counts(t *testing.T) {
	tests := []struct {
		name              string
		samples, len, hop int
		wantFrames        int
		wantPadded        int
	}{
		{"reference", 1000, 512, 256, 4, 1280},
		{"exact multiple", 1024, 512, 256, 4, 1280},
		{"single short", 10, 512, 256, 1, 512},
		{"no overlap", 1000, 256, 256, 4, 1024},
		{"tiny hop", 7, 4, 1, 7, 10},
		{"empty", 0, 512, 256, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFramer(ramp(tt.samples), tt.len, tt.hop)
			if err != nil {
				t.Fatal(err)
			}
			if got := f.NumFrames(); got != tt.wantFrames {
				t.Errorf("NumFrames() = %d, want %d", got, tt.wantFrames)
			}
			if got := f.PaddedLength(); got != tt.wantPadded {
				t.Errorf("PaddedLength() = %d, want %d", got, tt.wantPadded)
			}
			if got := f.Padding(); got != tt.wantPadded-tt.samples {
				t.Errorf("Padding() = %d, want %d", got, tt.wantPadded-tt.samples)
			}
		})
	}
}

func TestFramer_ZeroPadsLastFrame(t *testing.T) {
	samples := ramp(1000)
	f, err := NewFramer(samples, 512, 256)
	if err != nil {
		t.Fatal(err)
	}
	if f.Padding() != 280 {
		t.Fatalf("Padding() = %d, want 280", f.Padding())
	}

	last := f.Frame(3)
	if last.Start != 768 {
		t.Fatalf("last frame start = %d, want 768", last.Start)
	}
	if len(last.Samples) != 512 {
		t.Fatalf("last frame length = %d, want 512", len(last.Samples))
	}
	for i := range 232 {
		if last.Samples[i] != samples[768+i] {
			t.Fatalf("sample %d = %v, want %v", i, last.Samples[i], samples[768+i])
		}
	}
	for i := 232; i < 512; i++ {
		if last.Samples[i] != 0 {
			t.Fatalf("padded sample %d = %v, want 0", i, last.Samples[i])
		}
	}
}

func TestFramer_FramesDoNotAliasInput(t *testing.T) {
	samples := ramp(16)
	f, _ := NewFramer(samples, 8, 4)

	fr := f.Frame(0)
	fr.Samples[0] = -100
	if samples[0] != 1 {
		t.Fatalf("frame mutation leaked into waveform: %v", samples[0])
	}
}

func TestFramer_AllIsRestartable(t *testing.T) {
	f, _ := NewFramer(ramp(100), 20, 10)

	count := func() int {
		n := 0
		for fr := range f.All() {
			if fr.Index != n {
				t.Fatalf("frame index %d out of order, want %d", fr.Index, n)
			}
			n++
		}
		return n
	}

	if a, b := count(), count(); a != 10 || b != 10 {
		t.Fatalf("passes yielded %d and %d frames, want 10 each", a, b)
	}

	seen := 0
	for range f.All() {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Fatalf("early break yielded %d frames", seen)
	}
}

func TestFramer_InvalidParameters(t *testing.T) {
	tests := []struct {
		name     string
		len, hop int
	}{
		{"zero length", 0, 1},
		{"negative length", -4, 1},
		{"zero shift", 16, 0},
		{"negative shift", 16, -1},
		{"shift beyond length", 16, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFramer(ramp(10), tt.len, tt.hop)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

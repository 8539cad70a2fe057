package lpc

import "testing"

func TestAutocorrelate(t *testing.T) {
	tests := []struct {
		name  string
		frame []float64
		order int
		want  []float64
	}{
		{"short frame pads lags", []float64{1, 2, 3}, 4, []float64{14, 8, 3, 0, 0}},
		{"impulse", []float64{0, 2, 0, 0}, 2, []float64{4, 0, 0}},
		{"constant", []float64{1, 1, 1, 1}, 3, []float64{4, 3, 2, 1}},
		{"alternating", []float64{1, -1, 1, -1}, 2, []float64{4, -3, 2}},
		{"empty frame", nil, 2, []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Autocorrelate(tt.frame, tt.order)
			if len(got) != tt.order+1 {
				t.Fatalf("len = %d, want %d", len(got), tt.order+1)
			}
			for i := range got {
				if !almostEqual(got[i], tt.want[i], 1e-12) {
					t.Errorf("r[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAutocorrelate_DoesNotNormalize(t *testing.T) {
	frame := make([]float64, 256)
	for i := range frame {
		frame[i] = 0.5
	}
	r := Autocorrelate(frame, 1)
	if r[0] != 64 || r[1] != 63.75 {
		t.Fatalf("r = %v, want [64 63.75]", r)
	}
}

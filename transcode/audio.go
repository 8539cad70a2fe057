package transcode

import (
	"context"
	"time"
)

// AudioData represents a decoded, mono waveform.
type AudioData struct {
	PCM        []float64     `json:"-"` // Samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channels in the source before downmixing
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source,omitempty"`
	Format     string        `json:"format,omitempty"`
}

// Loader turns a file path or an in-memory audio file into a waveform.
type Loader interface {
	Load(ctx context.Context, path string) (*AudioData, error)
	LoadBytes(ctx context.Context, data []byte) (*AudioData, error)
}

func durationOf(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// downmix averages interleaved channels into a single channel.
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

package transcode

import (
	"fmt"
	"io"
	"os"

	"github.com/mjibson/go-dsp/wav"

	"github.com/RyanBlaney/sonido-formants/logging"
)

// ReadWAV decodes a PCM (8/16-bit) or IEEE float WAV stream. Multi-channel
// audio is averaged down to mono.
func ReadWAV(r io.Reader) (*AudioData, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav header: %w", err)
	}
	if w.SampleRate == 0 || w.NumChannels == 0 {
		return nil, fmt.Errorf("invalid wav header: %d Hz, %d channels", w.SampleRate, w.NumChannels)
	}

	raw, err := w.ReadSamples(w.Samples)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	var interleaved []float64
	switch data := raw.(type) {
	case []uint8:
		interleaved = make([]float64, len(data))
		for i, v := range data {
			interleaved[i] = (float64(v) - 128) / 128
		}
	case []int16:
		interleaved = make([]float64, len(data))
		for i, v := range data {
			interleaved[i] = float64(v) / 32768
		}
	case []float32:
		interleaved = make([]float64, len(data))
		for i, v := range data {
			interleaved[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported wav sample type %T", raw)
	}

	channels := int(w.NumChannels)
	pcm := downmix(interleaved, channels)
	sampleRate := int(w.SampleRate)

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   durationOf(len(pcm), sampleRate),
		Format:     "wav",
	}, nil
}

// LoadWAV reads a WAV file from disk.
func LoadWAV(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "wav_reader",
		"filename":  filename,
	})

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", filename, err)
	}
	defer f.Close()

	data, err := ReadWAV(f)
	if err != nil {
		logger.Error(err, "Failed to decode wav file")
		return nil, err
	}
	data.Source = filename

	logger.Debug("Wav file decoded", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"samples":     len(data.PCM),
	})
	return data, nil
}

package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-formants/logging"
)

// ErrDecoderUnavailable is returned when input needs ffmpeg and the
// configured binaries cannot be run.
var ErrDecoderUnavailable = errors.New("ffmpeg decoder unavailable")

// FileLoader reads WAV natively and hands everything else, including WAV
// encodings the native reader does not support, to ffmpeg.
type FileLoader struct {
	decoder *Decoder
}

var _ Loader = (*FileLoader)(nil)

// NewFileLoader creates a loader whose ffmpeg fallback uses config.
func NewFileLoader(config *DecoderConfig) *FileLoader {
	return &FileLoader{decoder: NewDecoder(config)}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, path string) (*AudioData, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		data, err := LoadWAV(path)
		if err == nil {
			return data, nil
		}
		logging.Warn("Native wav reader failed, falling back to ffmpeg", logging.Fields{
			"component": "file_loader",
			"filename":  path,
			"error":     err.Error(),
		})
	}

	if err := l.checkDecoder(ctx); err != nil {
		return nil, err
	}
	return l.decoder.DecodeFile(ctx, path)
}

// LoadBytes implements Loader. WAV data is read natively, anything else goes
// through ffmpeg's stdin.
func (l *FileLoader) LoadBytes(ctx context.Context, data []byte) (*AudioData, error) {
	if len(data) == 0 {
		return nil, errors.New("empty audio data")
	}

	audio, err := ReadWAV(bytes.NewReader(data))
	if err == nil {
		return audio, nil
	}
	logging.Debug("Input is not native wav, decoding with ffmpeg", logging.Fields{
		"component": "file_loader",
		"data_size": len(data),
		"error":     err.Error(),
	})

	if err := l.checkDecoder(ctx); err != nil {
		return nil, err
	}
	return l.decoder.DecodeBytes(ctx, data)
}

func (l *FileLoader) checkDecoder(ctx context.Context) error {
	if err := l.decoder.ValidateConfig(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoderUnavailable, err)
	}
	return nil
}

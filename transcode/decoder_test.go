package transcode

import (
	"context"
	"encoding/binary"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestBytesToFloat64(t *testing.T) {
	buf := make([]byte, 8*3+5)
	for i, v := range []float64{0.5, -1, 0.125} {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}

	got := bytesToFloat64(buf)
	if !slices.Equal(got, []float64{0.5, -1, 0.125}) {
		t.Fatalf("bytesToFloat64 = %v", got)
	}
	if bytesToFloat64([]byte{1, 2, 3}) != nil {
		t.Error("partial sample decoded")
	}
}

func TestParseFFprobeOutput(t *testing.T) {
	good := `{"streams":[{"codec_type":"audio","codec_name":"flac","sample_rate":"22050","channels":2,"duration":"1.5","codec_long_name":"FLAC"}]}`
	md, err := parseFFprobeOutput([]byte(good))
	if err != nil {
		t.Fatal(err)
	}
	if md.SampleRate != 22050 || md.Channels != 2 || md.Codec != "flac" || md.Duration != 1.5 {
		t.Fatalf("metadata = %+v", md)
	}

	bad := []string{
		`not json`,
		`{"streams":[]}`,
		`{"streams":[{"codec_type":"video","sample_rate":"22050","channels":1}]}`,
		`{"streams":[{"codec_type":"audio","sample_rate":"abc","channels":1}]}`,
		`{"streams":[{"codec_type":"audio","sample_rate":"8000","channels":0}]}`,
	}
	for _, in := range bad {
		if _, err := parseFFprobeOutput([]byte(in)); err == nil {
			t.Errorf("parseFFprobeOutput(%s) succeeded", in)
		}
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	md := &AudioMetadata{SampleRate: 44100, Channels: 2}

	d := NewDecoder(nil)
	args := strings.Join(d.buildFFmpegArgs("in.mp3", md), " ")
	if !strings.Contains(args, "-i in.mp3 -f f64le -ac 1 -ar 44100") {
		t.Errorf("native rate args = %q", args)
	}
	if strings.Contains(args, "aresample") {
		t.Errorf("resampler requested without rate change: %q", args)
	}
	if !strings.HasSuffix(args, "pipe:1") {
		t.Errorf("args do not end with stdout output: %q", args)
	}

	cfg := DefaultDecoderConfig()
	cfg.TargetSampleRate = 16000
	cfg.ResampleQuality = "fast"
	cfg.MaxDuration = 2500 * time.Millisecond
	args = strings.Join(NewDecoder(cfg).buildFFmpegArgs("pipe:0", md), " ")
	for _, want := range []string{"-ar 16000", "precision=16", "-t 2.50"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestDecoderConfig_Validate(t *testing.T) {
	if err := DefaultDecoderConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultDecoderConfig()
	cfg.TargetSampleRate = -1
	cfg.Timeout = 0
	cfg.ResampleQuality = "extreme"
	cfg.FFmpegPath = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid config accepted")
	}
	for _, want := range []string{"sample rate", "timeout", "resample quality", "ffmpeg"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestDecoder_ValidateConfig(t *testing.T) {
	ctx := context.Background()

	bad := DefaultDecoderConfig()
	bad.Timeout = 0
	if err := NewDecoder(bad).ValidateConfig(ctx); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("invalid config: err = %v", err)
	}

	missing := DefaultDecoderConfig()
	missing.FFmpegPath = filepath.Join(t.TempDir(), "no-ffmpeg")
	if err := NewDecoder(missing).ValidateConfig(ctx); err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("missing binary: err = %v", err)
	}
}

func TestDecoder_DecodeBytesEmpty(t *testing.T) {
	if _, err := NewDecoder(nil).DecodeBytes(context.Background(), nil); err == nil {
		t.Error("DecodeBytes(nil) succeeded")
	}
}

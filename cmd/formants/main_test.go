package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-formants/synth"
)

// writeTestWAV writes 0.5 s of a 700 Hz + 1800 Hz tone as 16-bit mono PCM.
func writeTestWAV(t *testing.T) string {
	t.Helper()

	s, err := synth.New(8000)
	if err != nil {
		t.Fatal(err)
	}
	pcm, err := s.Generate(0.5,
		synth.Partial{Frequency: 700, Amplitude: 0.4},
		synth.Partial{Frequency: 1800, Amplitude: 0.4},
	)
	if err != nil {
		t.Fatal(err)
	}

	samples := make([]int16, len(pcm))
	for i, v := range pcm {
		samples[i] = int16(math.Round(v * math.MaxInt16))
	}

	var payload bytes.Buffer
	binary.Write(&payload, binary.LittleEndian, samples)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+payload.Len()))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(payload.Len()))
	buf.Write(payload.Bytes())

	path := filepath.Join(t.TempDir(), "tones.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Text(t *testing.T) {
	path := writeTestWAV(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-log-level", "warn", path}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	// 4000 samples at shift 256: 16 frames plus the summary line.
	if len(lines) != 17 {
		t.Fatalf("got %d lines:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[16], "# frames=16 ") {
		t.Errorf("summary line = %q", lines[16])
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected log output at warn level: %s", stderr.String())
	}
}

func TestRun_JSON(t *testing.T) {
	path := writeTestWAV(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-json", "-order", "8", "-frame-length", "256", "-frame-shift", "128", "-workers", "2", path}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}

	var result struct {
		SampleRate int `json:"sample_rate"`
		Config     struct {
			Order int `json:"order"`
		} `json:"config"`
		Frames []struct {
			Index    int `json:"index"`
			Formants []struct {
				Frequency float64 `json:"frequency"`
			} `json:"formants"`
			Status string `json:"status"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout.String())
	}

	if result.SampleRate != 8000 || result.Config.Order != 8 {
		t.Errorf("sample rate %d, order %d", result.SampleRate, result.Config.Order)
	}
	if len(result.Frames) != 32 {
		t.Fatalf("got %d frames, want 32", len(result.Frames))
	}

	mid := result.Frames[10]
	if mid.Status != "ok" {
		t.Fatalf("frame 10 status %q", mid.Status)
	}
	found := map[float64]bool{}
	for _, target := range []float64{700, 1800} {
		for _, f := range mid.Formants {
			if math.Abs(f.Frequency-target) < 20 {
				found[target] = true
			}
		}
	}
	if len(found) != 2 {
		t.Errorf("frame 10 formants %+v, want 700 and 1800 Hz", mid.Formants)
	}
}

func TestRun_Metrics(t *testing.T) {
	path := writeTestWAV(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-metrics", path}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Frame outcomes") {
		t.Errorf("metrics not logged: %s", stderr.String())
	}
}

func TestRun_Config(t *testing.T) {
	path := writeTestWAV(t)
	cfgPath := filepath.Join(t.TempDir(), "formants.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: error\nanalysis:\n  frame_shift: 512\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfgPath, path}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "# frames=8 ") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

func TestRun_Stdin(t *testing.T) {
	raw, err := os.ReadFile(writeTestWAV(t))
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-log-level", "error", "-"}, bytes.NewReader(raw), &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "# frames=16 ") {
		t.Errorf("output:\n%s", stdout.String())
	}
}

func TestRun_MissingFFmpeg(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "formants.yaml")
	doc := "log_level: error\ndecoder:\n  ffmpeg_path: " + filepath.Join(t.TempDir(), "no-ffmpeg") + "\n"
	if err := os.WriteFile(cfgPath, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-"}, strings.NewReader("not a wav file"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "needs ffmpeg") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeTestWAV(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no input", nil, 2},
		{"unknown flag", []string{"-bogus", path}, 2},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.wav")}, 1},
		{"invalid override", []string{"-order", "600", path}, 1},
		{"unknown solver", []string{"-solver", "qr", path}, 1},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "none.yaml"), path}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, nil, &stdout, &stderr); code != tt.want {
				t.Errorf("exit %d, want %d (stderr: %s)", code, tt.want, stderr.String())
			}
		})
	}
}

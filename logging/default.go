package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// output is shared by a DefaultLogger and every logger derived from it with
// WithFields or WithContext, so SetLevel and DisableColors reach them all.
type output struct {
	stdout    *log.Logger // Debug, Info
	stderr    *log.Logger // Warn, Error, Fatal
	level     atomic.Int32
	useColors atomic.Bool
	exit      func(int)
}

// DefaultLogger writes `[LEVEL] msg: err key=value ...` lines through the
// standard log package. Warn and above go to stderr, colored on terminals.
type DefaultLogger struct {
	out    *output
	fields Fields
}

// NewDefaultLogger logs to stdout/stderr with colors when stdout is a terminal.
// Fatal exits the process.
func NewDefaultLogger() *DefaultLogger {
	l := NewDefaultLoggerWithWriters(os.Stdout, os.Stderr)
	l.out.useColors.Store(isTerminal())
	l.out.exit = os.Exit
	return l
}

// NewDefaultLoggerWithWriters creates an uncolored logger writing to the given
// streams. Fatal does not exit the process.
func NewDefaultLoggerWithWriters(stdout, stderr io.Writer) *DefaultLogger {
	out := &output{
		stdout: log.New(stdout, "", log.LstdFlags),
		stderr: log.New(stderr, "", log.LstdFlags),
		exit:   func(int) {},
	}
	out.level.Store(int32(InfoLevel))
	return &DefaultLogger{out: out, fields: Fields{}}
}

func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) format(level Level, err error, msg string, fields []Fields) string {
	merged := maps.Clone(d.fields)
	for _, f := range fields {
		maps.Copy(merged, f)
	}

	var b strings.Builder
	if d.out.useColors.Load() {
		switch level {
		case WarnLevel:
			b.WriteString(ColorYellow)
		case ErrorLevel:
			b.WriteString(ColorRed)
		case FatalLevel:
			b.WriteString(ColorBold + ColorRed)
		}
	}

	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		fmt.Fprintf(&b, " %s=%v", k, merged[k])
	}

	if d.out.useColors.Load() && level >= WarnLevel {
		b.WriteString(ColorReset)
	}
	return b.String()
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields []Fields) {
	if level < Level(d.out.level.Load()) {
		return
	}

	line := d.format(level, err, msg, fields)
	if level < WarnLevel {
		d.out.stdout.Println(line)
		return
	}
	d.out.stderr.Println(line)
	if level == FatalLevel {
		d.out.exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) { d.log(DebugLevel, nil, msg, fields) }
func (d *DefaultLogger) Info(msg string, fields ...Fields)  { d.log(InfoLevel, nil, msg, fields) }
func (d *DefaultLogger) Warn(msg string, fields ...Fields)  { d.log(WarnLevel, nil, msg, fields) }

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields)
}

// WithFields returns a logger sharing d's output with fields added.
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := maps.Clone(d.fields)
	maps.Copy(merged, fields)
	return &DefaultLogger{out: d.out, fields: merged}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

// SetLevel changes the level of d and every logger derived from it.
func (d *DefaultLogger) SetLevel(level Level) {
	d.out.level.Store(int32(level))
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}

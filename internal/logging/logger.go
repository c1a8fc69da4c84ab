// Package logging builds the process logger: leveled hclog output on
// stderr with optional color, JSON format and a log file sink.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/term"
)

// Name is the logger name shown in every line.
const Name = "gifmaster"

const timeFormat = "2006-01-02 15:04:05"

// Logger is an hclog intercept logger plus the log file it may own.
// Call Close when done if LogFile was set.
type Logger struct {
	hclog.InterceptLogger

	file *os.File
	sink hclog.SinkAdapter
}

// New builds the logger from opts, writing to stderr. The level must
// already be validated.
func New(opts *config.Options) (*Logger, error) {
	color := hclog.ColorOff
	if !opts.LogJSON && term.ColorEnabled(opts.ColorMode, os.Stderr) {
		color = hclog.ForceColor
	}
	return newLogger(opts, os.Stderr, color)
}

func newLogger(opts *config.Options, out io.Writer, color hclog.ColorOption) (*Logger, error) {
	level := opts.Level()
	l := &Logger{
		InterceptLogger: hclog.NewInterceptLogger(&hclog.LoggerOptions{
			Name:       Name,
			Level:      level,
			Output:     out,
			TimeFormat: timeFormat,
			JSONFormat: opts.LogJSON,
			Color:      color,
		}),
	}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.sink = hclog.NewSinkAdapter(&hclog.LoggerOptions{
			Name:       Name,
			Level:      level,
			Output:     f,
			TimeFormat: timeFormat,
			JSONFormat: opts.LogJSON,
			Color:      hclog.ColorOff,
		})
		l.RegisterSink(l.sink)
	}
	return l, nil
}

// Close detaches and closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.DeregisterSink(l.sink)
	err := l.file.Close()
	l.file = nil
	l.sink = nil
	return err
}

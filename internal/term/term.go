// Package term provides terminal detection and color resolution for log
// and progress output.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/gifmaster/internal/config"
)

// ColorEnabled resolves mode against f: always and never are absolute;
// auto enables colors when f is a TTY, NO_COLOR is unset
// (https://no-color.org) and TERM is not "dumb".
func ColorEnabled(mode config.ColorMode, f *os.File) bool {
	return resolve(mode, IsTerminal(f), os.Getenv("NO_COLOR"), os.Getenv("TERM"))
}

func resolve(mode config.ColorMode, tty bool, noColor, termEnv string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return tty && noColor == "" && strings.ToLower(termEnv) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

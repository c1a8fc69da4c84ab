package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// reFilterRejected matches the stderr messages ffmpeg prints when the
// filter graph itself is rejected, as opposed to a decode or I/O failure.
var reFilterRejected = regexp.MustCompile(
	`No such filter|` +
		`Error initializing (complex )?filters?|` +
		`Error parsing (a filter description|filterchain)|` +
		`Error applying option .* to filter|` +
		`Error reinitializing filters|` +
		`Option '?[^ ']+'? not found|` +
		`has an unconnected output|` +
		`Failed to configure (input|output) pad`)

// MatchFilterRejected reports whether stderr contains a filter rejection.
func MatchFilterRejected(stderr string) bool {
	return reFilterRejected.MatchString(stderr)
}

// EngineError is a failed ffmpeg run with the tail of its stderr.
type EngineError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EngineError) Error() string {
	var b strings.Builder
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, "ffmpeg exited with status %d", e.ExitCode)
	} else {
		fmt.Fprintf(&b, "ffmpeg failed: %v", e.Err)
	}
	if tail := lastLines(e.Stderr, 3); tail != "" {
		b.WriteString(": ")
		b.WriteString(tail)
	}
	return b.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

// classify maps a run failure to the error taxonomy. A canceled context is
// an ExecutionError carrying the context error.
func classify(ctx context.Context, runErr error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.Execution("ffmpeg", ctxErr)
	}
	ee := &EngineError{ExitCode: -1, Stderr: stderr, Err: runErr}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		ee.ExitCode = exitErr.ExitCode()
	}
	if MatchFilterRejected(stderr) {
		return apperr.FilterBuild("ffmpeg", ee)
	}
	return apperr.Execution("ffmpeg", ee)
}

// lastLines returns up to n trailing non-empty lines joined by "; ".
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	var out []string
	for i := len(lines) - 1; i >= 0 && len(out) < n; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			out = append(out, l)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return strings.Join(out, "; ")
}

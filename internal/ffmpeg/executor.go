package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// Result holds the outcome of a successful ffmpeg invocation.
type Result struct {
	Stdout  string
	Stderr  string
	Elapsed time.Duration
}

// Executor runs compiled commands and answers capability queries against
// one ffmpeg executable.
type Executor struct {
	Path string
	Log  hclog.Logger

	// ProgressOut receives the progress bar; os.Stderr when nil.
	ProgressOut io.Writer
}

// NewExecutor returns an Executor for the ffmpeg at path.
func NewExecutor(path string, log hclog.Logger) *Executor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Executor{Path: path, Log: log}
}

// Execute runs cmd to completion. stdout and stderr are drained
// concurrently; when cmd.Progress is set stdout feeds the progress bar
// instead of the captured output. Failures are classified into
// FilterBuildError or ExecutionError.
func (e *Executor) Execute(ctx context.Context, cmd *Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	stdoutPipe, err := c.StdoutPipe()
	if err != nil {
		return nil, apperr.Execution("ffmpeg", err)
	}
	stderrPipe, err := c.StderrPipe()
	if err != nil {
		return nil, apperr.Execution("ffmpeg", err)
	}

	e.Log.Debug("running ffmpeg", "path", cmd.Path, "args", len(cmd.Args))
	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, apperr.Execution("ffmpeg", fmt.Errorf("start %s: %w", cmd.Path, err))
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		if cmd.Progress {
			err := NewProgress(cmd.Duration, e.progressOut()).Consume(stdoutPipe)
			_, _ = io.Copy(io.Discard, stdoutPipe)
			return err
		}
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	readErr := g.Wait()
	runErr := c.Wait()

	res := &Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}
	if runErr != nil {
		return res, classify(ctx, runErr, res.Stderr)
	}
	if readErr != nil {
		return res, apperr.Execution("ffmpeg", fmt.Errorf("read output: %w", readErr))
	}
	return res, nil
}

func (e *Executor) progressOut() io.Writer {
	if e.ProgressOut != nil {
		return e.ProgressOut
	}
	return os.Stderr
}

// Filters returns the set of filter names the engine supports.
func (e *Executor) Filters(ctx context.Context) (map[string]bool, error) {
	out, err := exec.CommandContext(ctx, e.Path, "-hide_banner", "-filters").Output()
	if err != nil {
		return nil, fmt.Errorf("query ffmpeg filters: %w", err)
	}
	set := ParseFilters(string(out))
	if len(set) == 0 {
		return nil, fmt.Errorf("query ffmpeg filters: no filters listed")
	}
	return set, nil
}

// Version returns the first line of "ffmpeg -version".
func (e *Executor) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, e.Path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("query ffmpeg version: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// reFilterFlags matches the capability column of "ffmpeg -filters": two or
// three of timeline, slice-threading and command flags.
var reFilterFlags = regexp.MustCompile(`^[T.][S.][C.]?$`)

// ParseFilters extracts filter names from "ffmpeg -filters" output. Lines
// look like " TSC scale   V->V   Scale the input video size ...".
func ParseFilters(out string) map[string]bool {
	set := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || !reFilterFlags.MatchString(fields[0]) || !strings.Contains(fields[2], "->") {
			continue
		}
		set[fields[1]] = true
	}
	return set
}

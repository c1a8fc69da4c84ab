// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe and the filters the
// chain builder can emit.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/planner"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffprobe not found")
)

// Filters lists every engine filter the chain builder can emit.
var Filters = []string{
	planner.StepTrim,
	planner.StepCropDetect,
	planner.StepCrop,
	planner.StepScale,
	planner.StepSpeed,
	planner.StepFPS,
	planner.StepDenoise,
	planner.StepSharpen,
	planner.StepText,
	planner.FilterSplit,
	planner.FilterPaletteGen,
	planner.FilterPaletteUse,
}

// Engine is the capability surface RunCheck queries.
type Engine interface {
	Version(ctx context.Context) (string, error)
	Filters(ctx context.Context) (map[string]bool, error)
}

// CheckDeps verifies that the configured ffmpeg and ffprobe resolve to
// executables. A dry run never invokes ffmpeg, so only ffprobe is required.
// Returns a wrapped sentinel error on failure.
func CheckDeps(opts *config.Options) error {
	if !opts.DryRun {
		if _, err := exec.LookPath(opts.FFmpegPath); err != nil {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, opts.FFmpegPath)
		}
	}
	if _, err := exec.LookPath(opts.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, opts.FFprobePath)
	}
	return nil
}

// Missing returns the names not present in available, in order.
func Missing(available map[string]bool, names []string) []string {
	var out []string
	for _, n := range names {
		if !available[n] {
			out = append(out, n)
		}
	}
	return out
}

// RunCheck runs the --check flow: it writes the resolved ffmpeg and
// ffprobe paths, the engine version and the availability of every filter
// in Filters to w. Reports false when anything required is missing.
func RunCheck(ctx context.Context, opts *config.Options, eng Engine, log hclog.Logger, w io.Writer, colored bool) bool {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if colored {
		ok.EnableColor()
		bad.EnableColor()
	} else {
		ok.DisableColor()
		bad.DisableColor()
	}

	fmt.Fprintln(w, "=== System Check ===")
	healthy := true

	for _, tool := range []struct{ name, path string }{
		{"ffmpeg", opts.FFmpegPath},
		{"ffprobe", opts.FFprobePath},
	} {
		resolved, err := exec.LookPath(tool.path)
		if err != nil {
			bad.Fprintf(w, "✗ %s not found (%s)\n", tool.name, tool.path)
			log.Debug("lookup failed", "tool", tool.name, "error", err)
			healthy = false
			continue
		}
		ok.Fprintf(w, "✓ %s: %s\n", tool.name, resolved)
	}
	if !healthy {
		return false
	}

	if v, err := eng.Version(ctx); err != nil {
		log.Warn("could not read ffmpeg version", "error", err)
	} else {
		fmt.Fprintf(w, "  %s\n", v)
	}

	available, err := eng.Filters(ctx)
	if err != nil {
		bad.Fprintf(w, "✗ could not list filters: %v\n", err)
		return false
	}

	fmt.Fprintln(w, "Filters:")
	missing := make(map[string]bool)
	for _, n := range Missing(available, Filters) {
		missing[n] = true
	}
	for _, n := range Filters {
		if missing[n] {
			bad.Fprintf(w, "  ✗ %s (missing)\n", n)
		} else {
			ok.Fprintf(w, "  ✓ %s\n", n)
		}
	}
	if len(missing) > 0 {
		log.Warn("filters missing from ffmpeg", "count", len(missing))
		return false
	}
	return true
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/check"
	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/ffmpeg"
	"github.com/backmassage/gifmaster/internal/planner"
	"github.com/backmassage/gifmaster/internal/probe"
)

// Prober reads source facts for the input.
type Prober interface {
	Probe(ctx context.Context, input string) (*probe.SourceInfo, error)
}

// Engine runs compiled commands and reports the filters it supports.
type Engine interface {
	Execute(ctx context.Context, cmd *ffmpeg.Command) (*ffmpeg.Result, error)
	Filters(ctx context.Context) (map[string]bool, error)
}

// Runner wires the stages of one conversion together.
type Runner struct {
	Log    hclog.Logger
	Prober Prober
	Engine Engine
	Stdout io.Writer // Dry-run command lines; os.Stdout when nil.
}

// Run performs one conversion: inspect → probe → build → compile, then
// either prints the command (dry run), skips an existing output
// (overwrite without force), or preflights and executes it.
func (r *Runner) Run(ctx context.Context, opts *config.Options) (*Result, error) {
	log := r.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if log.IsTrace() {
		if b, err := json.Marshal(opts); err == nil {
			log.Trace("options", "json", string(b))
		}
	}

	// --- Inspect ---
	in, err := inspectInput(opts.Input)
	if err != nil {
		return nil, err
	}
	if !in.LooksLikeVideo() {
		log.Warn("input does not look like a video", "path", in.Path, "mime", in.MIME)
	}

	// --- Probe ---
	src, err := r.Prober.Probe(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	logSource(log, src)

	// --- Build and compile ---
	chain, err := planner.Build(opts, src)
	if err != nil {
		return nil, err
	}
	for _, note := range chain.Notes {
		log.Warn(note)
	}
	log.Debug("filter chain", "steps", strings.Join(chain.Names(), ","))

	cmd, err := ffmpeg.Compile(opts, chain)
	if err != nil {
		return nil, err
	}
	res := &Result{Source: src, Chain: chain, Command: cmd, InputSize: in.Size}

	// --- Dry run ---
	if opts.DryRun {
		fmt.Fprintln(r.stdout(), cmd.String())
		log.Info("dry run, ffmpeg not invoked")
		res.Outcome = OutcomeDryRun
		return res, nil
	}

	// --- Overwrite skip ---
	if opts.Overwrite && !opts.Force {
		if _, err := os.Stat(opts.Output); err == nil {
			log.Info("skipping existing file", "output", opts.Output)
			res.Outcome = OutcomeSkipped
			return res, nil
		}
	}

	// --- Preflight ---
	if err := r.preflight(ctx, log, chain); err != nil {
		return nil, err
	}

	// --- Execute ---
	log.Info("converting", "input", opts.Input, "output", opts.Output)
	log.Debug("ffmpeg command", "cmd", cmd.String())
	er, err := r.Engine.Execute(ctx, cmd)
	if err != nil {
		if er != nil && er.Stderr != "" {
			log.Debug("ffmpeg stderr", "stderr", strings.TrimSpace(er.Stderr))
		}
		return nil, err
	}
	if out := strings.TrimSpace(er.Stdout); out != "" {
		log.Info("ffmpeg output", "stdout", out)
	}
	if errOut := strings.TrimSpace(er.Stderr); errOut != "" {
		log.Warn("ffmpeg reported", "stderr", errOut)
	}

	res.Outcome = OutcomeConverted
	res.Elapsed = er.Elapsed
	res.report(log)
	return res, nil
}

// preflight checks the engine supports every filter in the chain. A failed
// capability query is not fatal.
func (r *Runner) preflight(ctx context.Context, log hclog.Logger, chain *planner.Chain) error {
	available, err := r.Engine.Filters(ctx)
	if err != nil {
		log.Warn("filter preflight skipped", "error", err)
		return nil
	}
	if missing := check.Missing(available, chain.Filters()); len(missing) > 0 {
		return apperr.FilterBuild("preflight",
			fmt.Errorf("ffmpeg does not provide filter(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}

func logSource(log hclog.Logger, src *probe.SourceInfo) {
	args := []interface{}{"format", src.FormatName, "resolution", src.Resolution(), "duration", src.Duration}
	if v := src.Video; v != nil {
		args = append(args, "codec", v.Codec, "stream", v.Index, "frame_rate", v.AvgFrameRate)
	}
	log.Debug("probed source", args...)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

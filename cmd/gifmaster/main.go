// Command gifmaster is the entrypoint for the video-to-GIF CLI.
// It parses flags, validates options, and either runs the system check
// (--check) or one conversion through ffmpeg.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/check"
	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/ffmpeg"
	"github.com/backmassage/gifmaster/internal/logging"
	"github.com/backmassage/gifmaster/internal/pipeline"
	"github.com/backmassage/gifmaster/internal/probe"
	"github.com/backmassage/gifmaster/internal/term"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args, performs the requested action and returns the process
// exit code. Every failure reaches the single exit path here.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := config.DefaultOptions()
	var log *logging.Logger
	defer func() {
		if log != nil {
			_ = log.Close()
		}
	}()

	cmd := config.NewCommand(&opts, version+" ("+commit+")", func(cmd *cobra.Command) error {
		// 1. Validate; fills the default output path.
		if err := opts.Validate(); err != nil {
			return err
		}

		l, err := logging.New(&opts)
		if err != nil {
			return apperr.Argumentf("open log file %s: %w", opts.LogFile, err)
		}
		log = l

		engine := ffmpeg.NewExecutor(opts.FFmpegPath, log.Named("ffmpeg"))

		// 2. System check only.
		if opts.CheckOnly {
			if !check.RunCheck(ctx, &opts, engine, log, cmd.OutOrStdout(), term.ColorEnabled(opts.ColorMode, os.Stdout)) {
				return apperr.Execution("check", fmt.Errorf("system check failed"))
			}
			return nil
		}

		// 3. Fail fast when a required tool cannot be found.
		if err := check.CheckDeps(&opts); err != nil {
			return apperr.Execution("deps", err)
		}

		// 4. Probe → build → compile → dry-run | skip | execute.
		r := &pipeline.Runner{
			Log:    log,
			Prober: probe.NewProber(opts.FFprobePath),
			Engine: engine,
			Stdout: cmd.OutOrStdout(),
		}
		res, err := r.Run(ctx, &opts)
		if err != nil {
			return err
		}
		log.Debug("done", "outcome", res.Outcome.String())
		return nil
	})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	kind := apperr.KindOf(err)
	if log == nil {
		// Failed before logging was configured: flags, options or log file.
		if kind == apperr.KindUnknown {
			kind = apperr.KindArgument
		}
		fmt.Fprintf(os.Stderr, "gifmaster: %s: %v\n", kind, err)
	} else {
		log.Error("gifmaster failed", "kind", kind.String(), "error", err)
	}
	return apperr.ExitCode(err)
}

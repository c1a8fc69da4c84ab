package pipeline

import (
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/display"
	"github.com/backmassage/gifmaster/internal/ffmpeg"
	"github.com/backmassage/gifmaster/internal/planner"
	"github.com/backmassage/gifmaster/internal/probe"
)

// Outcome is how a run ended without error.
type Outcome int

const (
	OutcomeConverted Outcome = iota
	OutcomeDryRun
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	Source  *probe.SourceInfo
	Chain   *planner.Chain
	Command *ffmpeg.Command

	InputSize  int64
	OutputSize int64
	Elapsed    time.Duration
}

// report logs the converted output's size relative to the input.
func (r *Result) report(log hclog.Logger) {
	if fi, err := os.Stat(r.Command.Output); err == nil {
		r.OutputSize = fi.Size()
	}
	log.Info("converted",
		"output", r.Command.Output,
		"size", display.FormatBytes(r.OutputSize),
		"of_input", display.FormatRatio(r.OutputSize, r.InputSize),
		"elapsed", display.FormatDuration(r.Elapsed),
	)
}

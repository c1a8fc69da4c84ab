package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/backmassage/gifmaster/internal/config"
)

// selection is the resolved time window in seconds. Zero start or
// duration means the bound is open.
type selection struct {
	start    float64
	duration float64
	notes    []string
}

// resolveTrim applies the time-selection precedence: last wins over start
// and duration. srcDuration is the probed duration, zero when unknown.
func resolveTrim(opts *config.Options, srcDuration float64) (selection, error) {
	var sel selection

	if opts.Last > 0 {
		if srcDuration <= 0 {
			return sel, fmt.Errorf("--last %ss needs the source duration, which is unknown", formatFloat(opts.Last))
		}
		if opts.Start > 0 || opts.Duration > 0 {
			sel.notes = append(sel.notes, "--last overrides --start and --duration")
		}
		sel.start = math.Floor(srcDuration) - opts.Last
		if sel.start < 0 {
			sel.notes = append(sel.notes, fmt.Sprintf(
				"--last %ss exceeds source duration %ss; using the whole clip",
				formatFloat(opts.Last), formatFloat(srcDuration)))
			sel.start = 0
		}
		return sel, nil
	}

	if srcDuration > 0 && opts.Start >= srcDuration {
		return sel, fmt.Errorf("start %ss is beyond the source duration %ss",
			formatFloat(opts.Start), formatFloat(srcDuration))
	}
	sel.start = opts.Start
	sel.duration = opts.Duration
	return sel, nil
}

// step returns the trim filter, or false when the window is unbounded.
func (s selection) step() (Step, bool) {
	if s.start <= 0 && s.duration <= 0 {
		return Step{}, false
	}
	st := filter(StepTrim)
	if s.start > 0 {
		st.Args = append(st.Args, kv("start", formatFloat(s.start)))
	}
	if s.duration > 0 {
		st.Args = append(st.Args, kv("duration", formatFloat(s.duration)))
	}
	return st, true
}

// outputDuration is the selected span scaled by speed. Zero when the span
// cannot be known.
func (s selection) outputDuration(srcDuration, speed float64) time.Duration {
	span := s.duration
	if srcDuration > 0 {
		rest := srcDuration - s.start
		if span <= 0 || span > rest {
			span = rest
		}
	}
	if span <= 0 || speed <= 0 {
		return 0
	}
	return time.Duration(span * speed * float64(time.Second))
}

package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/probe"
)

// Build produces the filter chain for one conversion. It is pure: the
// same options and source always give the same chain. Every failure is a
// FilterBuildError and no partial chain is returned.
//
// Flow:
//  1. Resolve the time selection (last overrides start/duration)
//  2. Autocrop detection and explicit crop
//  3. Resolve the output size and scale
//  4. Speed and frame rate
//  5. Extra user filters, verbatim and in order
//  6. Denoise, sharpen, text overlay
//  7. Palette generation and application
func Build(opts *config.Options, src *probe.SourceInfo) (*Chain, error) {
	if src == nil {
		src = &probe.SourceInfo{}
	}
	c := &Chain{}

	// --- 1. Time selection ---
	sel, err := resolveTrim(opts, src.Duration)
	if err != nil {
		return nil, apperr.FilterBuild("trim", err)
	}
	c.Notes = append(c.Notes, sel.notes...)
	if step, ok := sel.step(); ok {
		c.add(step)
	}
	c.Duration = sel.outputDuration(src.Duration, opts.Speed)

	// --- 2. Cropping ---
	if opts.Autocrop {
		c.add(filter(StepCropDetect, kv("limit", "250"), kv("round", "16"), kv("skip", "0")))
	}
	if opts.Crop.Enabled() {
		c.add(cropStep(opts.Crop))
	}

	// --- 3. Scale ---
	srcW, srcH := src.Dimensions()
	w, h, err := ResolveScale(opts, srcW, srcH)
	if err != nil {
		return nil, apperr.FilterBuild("scale", err)
	}
	c.add(filter(StepScale, pos(strconv.Itoa(w)), pos(strconv.Itoa(h)), kv("flags", "lanczos")))

	// --- 4. Speed and frame rate ---
	c.add(filter(StepSpeed, pos(formatFloat(opts.Speed)+"*PTS")))
	c.add(filter(StepFPS, pos(strconv.Itoa(opts.FPS))))

	// --- 5. Extra filters ---
	for i, raw := range opts.ExtraFilters {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, apperr.FilterBuild("extravf", fmt.Errorf("extra filter %d is empty", i+1))
		}
		name := ""
		if names := rawFilterNames(raw); len(names) > 0 {
			name = names[0]
		}
		c.add(Step{Kind: KindRaw, Name: name, Raw: raw})
	}

	// --- 6. Enhancement and overlay ---
	if opts.Denoise {
		c.add(filter(StepDenoise))
	}
	if opts.Sharpen > 0 {
		c.add(filter(StepSharpen, pos(formatFloat(opts.Sharpen))))
	}
	if opts.Text.Content != "" {
		c.add(textStep(opts.Text))
	}

	// --- 7. Palette ---
	c.add(Step{
		Kind: KindPalette,
		Name: StepPalette,
		Args: []Arg{
			kv("stats_mode", string(opts.Palette)),
			kv("dither", string(opts.Dither)),
		},
	})
	return c, nil
}

func (c *Chain) add(s Step) { c.Steps = append(c.Steps, s) }

func filter(name string, args ...Arg) Step {
	return Step{Kind: KindFilter, Name: name, Args: args}
}

func kv(key, value string) Arg { return Arg{Key: key, Value: value} }
func pos(value string) Arg     { return Arg{Value: value} }

// cropStep emits every crop coordinate that was set, in w, h, x, y order.
func cropStep(cr config.Crop) Step {
	s := filter(StepCrop)
	for _, f := range []struct {
		key string
		v   *int
	}{{"w", cr.W}, {"h", cr.H}, {"x", cr.X}, {"y", cr.Y}} {
		if f.v != nil {
			s.Args = append(s.Args, kv(f.key, strconv.Itoa(*f.v)))
		}
	}
	return s
}

func textStep(t config.Text) Step {
	s := filter(StepText, kv("fix_bounds", "true"), kv("fontcolor", t.Color))
	if t.Font != "" {
		s.Args = append(s.Args, kv("fontfile", t.Font))
	}
	s.Args = append(s.Args,
		kv("fontsize", strconv.Itoa(t.Size)),
		kv("shadowx", "2"),
		kv("shadowy", "2"),
		kv("text", t.Content),
		kv("x", t.X),
		kv("y", t.Y),
	)
	return s
}

// formatFloat renders v without trailing zeros: 1 → "1", 0.5 → "0.5".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

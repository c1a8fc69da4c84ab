package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/config"
	"github.com/backmassage/gifmaster/internal/planner"
)

// Graph link labels.
const (
	labelIn      = "[0:v]"
	labelOut     = "[out]"
	labelPalette = "[pal]"
)

// Command is one compiled engine invocation.
type Command struct {
	Path string
	Args []string

	Output   string
	Progress bool          // Args request "-progress pipe:1" key/value output.
	Duration time.Duration // Expected output duration; zero when unknown.
}

// String renders the command as a shell-quoted line.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Path))
	for _, a := range c.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// Compile turns the chain into the complete ffmpeg argument list. Step
// order and parameter values are preserved exactly. The generated command
// follows a fixed skeleton:
//
//	ffmpeg -hide_banner -nostdin -loglevel <lvl> <-y|-n> [-progress pipe:1 -nostats]
//	       -i <input> -filter_complex <graph> -map [out] -f gif <output>
func Compile(opts *config.Options, chain *planner.Chain) (*Command, error) {
	graph, err := Graph(chain)
	if err != nil {
		return nil, apperr.FilterBuild("compile", err)
	}

	args := make([]string, 0, 20)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin")

	// Loglevel: info when tracing or debugging, otherwise error.
	if lvl := opts.Level(); lvl != hclog.NoLevel && lvl <= hclog.Debug {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// -n makes ffmpeg fail on an existing output instead of prompting.
	if opts.Overwrite || opts.Force {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	if opts.Progress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}

	// --- Input, graph, output ---
	args = append(args,
		"-i", opts.Input,
		"-filter_complex", graph,
		"-map", labelOut,
		"-f", "gif",
		opts.Output,
	)

	return &Command{
		Path:     opts.FFmpegPath,
		Args:     args,
		Output:   opts.Output,
		Progress: opts.Progress,
		Duration: chain.Duration,
	}, nil
}

// Graph renders the chain as a filter_complex description:
//
//	[0:v]step,step,...,split=2[s0][s1];[s0]palettegen=…[pal];[s1][pal]paletteuse=…[out]
//
// A chain without a palette step ends with the [out] label directly.
func Graph(chain *planner.Chain) (string, error) {
	if chain == nil {
		return "", errors.New("nil filter chain")
	}

	var linear []string
	var palette *planner.Step
	for i, s := range chain.Steps {
		if palette != nil {
			return "", fmt.Errorf("step %q follows the palette step", s.Name)
		}
		switch s.Kind {
		case planner.KindPalette:
			palette = &chain.Steps[i]
		case planner.KindRaw:
			linear = append(linear, s.Raw)
		default:
			if s.Name == "" {
				return "", fmt.Errorf("step %d has no filter name", i+1)
			}
			linear = append(linear, EscapeGraph(renderFilter(s.Name, s.Args)))
		}
	}

	var b strings.Builder
	b.WriteString(labelIn)
	if palette == nil {
		if len(linear) == 0 {
			linear = []string{"null"}
		}
		b.WriteString(strings.Join(linear, ","))
		b.WriteString(labelOut)
		return b.String(), nil
	}

	for _, f := range linear {
		b.WriteString(f)
		b.WriteByte(',')
	}
	stats, _ := palette.Arg("stats_mode")
	dither, _ := palette.Arg("dither")
	fmt.Fprintf(&b, "%s=2[s0][s1];[s0]%s%s;[s1]%s%s%s",
		planner.FilterSplit,
		EscapeGraph(renderFilter(planner.FilterPaletteGen, []planner.Arg{{Key: "stats_mode", Value: stats}})), labelPalette,
		labelPalette, EscapeGraph(renderFilter(planner.FilterPaletteUse, []planner.Arg{{Key: "dither", Value: dither}})), labelOut,
	)
	return b.String(), nil
}

// renderFilter formats name=arg:arg:key=value with first-level escaping
// applied to every value.
func renderFilter(name string, args []planner.Arg) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Key == "" {
			parts[i] = EscapeValue(a.Value)
		} else {
			parts[i] = a.Key + "=" + EscapeValue(a.Value)
		}
	}
	return name + "=" + strings.Join(parts, ":")
}

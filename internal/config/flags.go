package config

// This file binds Options to the cobra command and its flags.
// Flags are grouped into input/output, time, geometry, filters, palette,
// behavior, logging, and engine. Crop flags and the config file are applied
// after parsing so that unset values stay nil and explicit flags win.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// cropFlags captures the crop flags; only the ones passed become set.
type cropFlags struct {
	x, y, w, h int
}

// NewCommand returns the root command with every flag bound to opts. run
// is called after flag parsing, config-file merging and crop resolution;
// validation is left to the caller.
func NewCommand(opts *Options, version string, run func(cmd *cobra.Command) error) *cobra.Command {
	var crop cropFlags

	cmd := &cobra.Command{
		Use:           "gifmaster -i <input> [-o <output>] [flags]",
		Short:         "Convert video to gif (requires ffmpeg and ffprobe)",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if opts.ConfigFile != "" {
				f, err := LoadFile(opts.ConfigFile)
				if err != nil {
					return apperr.New(apperr.KindArgument, "config", err)
				}
				f.Apply(opts, fs.Changed)
			}
			applyCropFlags(fs, opts, &crop)
			return run(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.New(apperr.KindArgument, "flags", err)
	})

	fs := cmd.Flags()
	fs.SortFlags = false

	defineIOFlags(fs, opts)
	defineTimeFlags(fs, opts)
	defineGeometryFlags(fs, opts, &crop)
	defineFilterFlags(fs, opts)
	definePaletteFlags(fs, opts)
	defineBehaviorFlags(fs, opts)
	defineLoggingFlags(fs, opts)
	defineEngineFlags(fs, opts)

	cmd.MarkFlagsMutuallyExclusive("width", "maxdimension")
	cmd.MarkFlagsMutuallyExclusive("height", "maxdimension")
	return cmd
}

// defineIOFlags registers -i/--input, -o/--output, --config.
func defineIOFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.Input, "input", "i", "", "Input file path")
	fs.StringVarP(&o.Output, "output", "o", "", "Output file path (default: <input>.gif)")
	fs.StringVar(&o.ConfigFile, "config", "", "YAML file of default option values")
}

// defineTimeFlags registers -s/--start, -d/--duration, -l/--last.
func defineTimeFlags(fs *pflag.FlagSet, o *Options) {
	fs.Float64VarP(&o.Start, "start", "s", 0, "Start time of input video in seconds")
	fs.Float64VarP(&o.Duration, "duration", "d", 0, "Duration in seconds from the start time to select")
	fs.Float64VarP(&o.Last, "last", "l", 0, "Select the last N seconds of video (overrides --start/--duration)")
}

// defineGeometryFlags registers size, autocrop and crop flags.
func defineGeometryFlags(fs *pflag.FlagSet, o *Options, c *cropFlags) {
	fs.IntVarP(&o.Width, "width", "W", 0, "Output width (height follows aspect ratio unless --height is set)")
	fs.IntVarP(&o.Height, "height", "H", 0, "Output height (width follows aspect ratio unless --width is set)")
	fs.IntVarP(&o.MaxDimension, "maxdimension", "m", 0, "Max pixels for the larger of width and height")
	fs.BoolVarP(&o.Autocrop, "autocrop", "a", false, "Detect black bars (cropdetect)")
	fs.IntVar(&c.w, "crop-w", 0, "Crop width")
	fs.IntVar(&c.h, "crop-h", 0, "Crop height")
	fs.IntVar(&c.x, "crop-x", 0, "Crop X position")
	fs.IntVar(&c.y, "crop-y", 0, "Crop Y position")
}

// defineFilterFlags registers timing, overlay and enhancement filters.
func defineFilterFlags(fs *pflag.FlagSet, o *Options) {
	fs.IntVarP(&o.FPS, "fps", "r", o.FPS, "Number of frames per second")
	fs.Float64VarP(&o.Speed, "speed", "S", o.Speed, "Timestamp multiplier (0.5 plays twice as fast)")
	fs.StringVarP(&o.Text.Content, "text", "t", "", "Add text overlay in lower third")
	fs.StringVar(&o.Text.X, "text-x", o.Text.X, "Text horizontal offset expression")
	fs.StringVar(&o.Text.Y, "text-y", o.Text.Y, "Text vertical offset expression")
	fs.IntVar(&o.Text.Size, "text-size", o.Text.Size, "Text overlay font size")
	fs.StringVar(&o.Text.Color, "text-color", o.Text.Color, "Text overlay font color")
	fs.StringVar(&o.Text.Font, "text-font", "", "Text overlay font file")
	fs.Var(&sharpenValue{&o.Sharpen}, "sharpen", "Contrast-adaptive sharpen strength: "+sharpenChoices())
	fs.BoolVar(&o.Denoise, "denoise", false, "Denoise in temporally-aware fashion (hqdn3d)")
	fs.StringArrayVarP(&o.ExtraFilters, "extravf", "f", nil, "Extra video filter passed to ffmpeg; repeatable")
}

// definePaletteFlags registers -p/--palette and -D/--dither.
func definePaletteFlags(fs *pflag.FlagSet, o *Options) {
	fs.VarP(&paletteValue{&o.Palette}, "palette", "p", "Stats mode for palettegen: diff | full")
	fs.VarP(&ditherValue{&o.Dither}, "dither", "D", "Dithering mode: none | floyd_steinberg | sierra2")
}

// defineBehaviorFlags registers overwrite, force, dry-run, progress, check.
func defineBehaviorFlags(fs *pflag.FlagSet, o *Options) {
	fs.BoolVarP(&o.Overwrite, "overwrite", "O", false, "Skip conversion when the destination file exists")
	fs.BoolVar(&o.Force, "force", false, "Overwrite the destination file unconditionally")
	fs.BoolVar(&o.DryRun, "dry", false, "Dry run: print the ffmpeg command and exit")
	fs.BoolVar(&o.Progress, "progress", false, "Show an encode progress bar")
	fs.BoolVar(&o.CheckOnly, "check", false, "Check ffmpeg, ffprobe and required filters, then exit")
}

// defineLoggingFlags registers -L/--loglevel, --log-file, --log-json, --color.
func defineLoggingFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.LogLevel, "loglevel", "L", o.LogLevel, "Logging level: TRACE | DEBUG | INFO | WARN (WARNING) | ERROR (CRITICAL)")
	fs.StringVar(&o.LogFile, "log-file", "", "Append logs to file")
	fs.BoolVar(&o.LogJSON, "log-json", false, "Emit logs as JSON lines")
	fs.Var(&colorModeValue{&o.ColorMode}, "color", "Colored logs: auto | always | never")
}

// defineEngineFlags registers --ffmpeg and --ffprobe.
func defineEngineFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVar(&o.FFmpegPath, "ffmpeg", o.FFmpegPath, "ffmpeg executable")
	fs.StringVar(&o.FFprobePath, "ffprobe", o.FFprobePath, "ffprobe executable")
}

// applyCropFlags copies the crop flags that were passed into o.Crop.
func applyCropFlags(fs *pflag.FlagSet, o *Options, c *cropFlags) {
	set := func(name string, v int, dst **int) {
		if fs.Changed(name) {
			n := v
			*dst = &n
		}
	}
	set("crop-x", c.x, &o.Crop.X)
	set("crop-y", c.y, &o.Crop.Y)
	set("crop-w", c.w, &o.Crop.W)
	set("crop-h", c.h, &o.Crop.H)
}

// pflag.Value adapters for the enum and choice flags.

type paletteValue struct{ p *PaletteMode }

func (v *paletteValue) String() string { return string(*v.p) }
func (v *paletteValue) Type() string   { return "mode" }
func (v *paletteValue) Set(s string) error {
	switch m := PaletteMode(strings.ToLower(s)); m {
	case PaletteFull, PaletteDiff:
		*v.p = m
	default:
		return fmt.Errorf("invalid palette mode %q (use 'diff' or 'full')", s)
	}
	return nil
}

type ditherValue struct{ p *DitherMode }

func (v *ditherValue) String() string { return string(*v.p) }
func (v *ditherValue) Type() string   { return "mode" }
func (v *ditherValue) Set(s string) error {
	switch m := DitherMode(strings.ToLower(s)); m {
	case DitherNone, DitherFloydSteinberg, DitherSierra2:
		*v.p = m
	default:
		return fmt.Errorf("invalid dither mode %q (use 'none', 'floyd_steinberg' or 'sierra2')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (v *colorModeValue) String() string { return string(*v.p) }
func (v *colorModeValue) Type() string   { return "mode" }
func (v *colorModeValue) Set(s string) error {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		*v.p = m
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type sharpenValue struct{ p *float64 }

func (v *sharpenValue) String() string {
	if *v.p == 0 {
		return ""
	}
	return strconv.FormatFloat(*v.p, 'f', -1, 64)
}
func (v *sharpenValue) Type() string { return "strength" }
func (v *sharpenValue) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !ValidSharpen(f) {
		return fmt.Errorf("invalid sharpen strength %q (use one of %s)", s, sharpenChoices())
	}
	*v.p = f
	return nil
}

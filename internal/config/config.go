// Package config holds the conversion options: defaults, CLI flag binding,
// the optional YAML defaults file, and validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/naming"
)

// --- Enum types for validated string fields ---

// PaletteMode is the palettegen stats_mode.
type PaletteMode string

const (
	PaletteFull PaletteMode = "full" // One palette for the whole clip (default).
	PaletteDiff PaletteMode = "diff" // Favor moving parts over static background.
)

// DitherMode is the paletteuse dither algorithm.
type DitherMode string

const (
	DitherNone           DitherMode = "none" // Default.
	DitherFloydSteinberg DitherMode = "floyd_steinberg"
	DitherSierra2        DitherMode = "sierra2"
)

// ColorMode controls ANSI color in log output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// SharpenLevels are the accepted --sharpen strengths.
var SharpenLevels = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 0.9, 1.0}

// Crop is an optional crop rectangle. Nil fields were not set.
type Crop struct {
	X *int
	Y *int
	W *int
	H *int
}

// Enabled reports whether enough of the rectangle is set to crop: both
// coordinates or both dimensions.
func (c Crop) Enabled() bool {
	return (c.X != nil && c.Y != nil) || (c.W != nil && c.H != nil)
}

// Text is the drawtext overlay. An empty Content disables it.
type Text struct {
	Content string
	X       string // Default: "w*0.05".
	Y       string // Default: "h*0.9".
	Size    int    // Default: 76.
	Color   string // Default: "white".
	Font    string // Optional font file path.
}

// Options holds every user-supplied conversion parameter. It is built by
// [DefaultOptions], filled from the config file and CLI flags, checked by
// [Options.Validate], and then passed by pointer to each pipeline stage.
type Options struct {
	// Paths.
	Input  string
	Output string // Default: <input stem>.gif next to the input.

	// Time selection in seconds. Zero means unset; Last overrides the others.
	Start    float64
	Duration float64
	Last     float64

	// Dimensions. Zero means unset. MaxDimension excludes Width and Height.
	Width        int
	Height       int
	MaxDimension int

	Autocrop bool
	Crop     Crop

	FPS   int     // Default: 12.
	Speed float64 // Default: 1.0. Multiplies presentation timestamps.

	Text Text

	Sharpen      float64 // Zero disables; otherwise one of SharpenLevels.
	Denoise      bool
	ExtraFilters []string

	Palette PaletteMode // Default: "full".
	Dither  DitherMode  // Default: "none".

	// Behavior flags.
	Overwrite bool // Skip when the output already exists.
	Force     bool // Overwrite the output unconditionally.
	DryRun    bool
	Progress  bool
	CheckOnly bool

	// Logging.
	LogLevel  string    // Default: "INFO".
	LogFile   string    // Optional log file path.
	LogJSON   bool      // Emit JSON log lines.
	ColorMode ColorMode // Default: "auto".

	// Engine executables.
	FFmpegPath  string // Default: "ffmpeg".
	FFprobePath string // Default: "ffprobe".

	ConfigFile string
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions() Options {
	return Options{
		FPS:   12,
		Speed: 1.0,
		Text: Text{
			X:     "w*0.05",
			Y:     "h*0.9",
			Size:  76,
			Color: "white",
		},
		Palette:     PaletteFull,
		Dither:      DitherNone,
		LogLevel:    "INFO",
		ColorMode:   ColorAuto,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
	}
}

// levelAliases maps alternate level names onto hclog levels.
var levelAliases = map[string]string{
	"warning":  "warn",
	"critical": "error",
	"fatal":    "error",
}

// Level returns the parsed log level, or hclog.NoLevel when LogLevel is
// not a recognized name. WARNING and CRITICAL are accepted as aliases of
// WARN and ERROR.
func (o *Options) Level() hclog.Level {
	name := strings.ToLower(strings.TrimSpace(o.LogLevel))
	if alias, ok := levelAliases[name]; ok {
		name = alias
	}
	return hclog.LevelFromString(name)
}

// Validate checks enum and range fields and the mutual-exclusion rules,
// and fills the default output path. All failures are ArgumentErrors.
// In CheckOnly mode the input path is not required.
func (o *Options) Validate() error {
	if err := o.validate(); err != nil {
		return apperr.New(apperr.KindArgument, "options", err)
	}
	return nil
}

func (o *Options) validate() error {
	switch o.Palette {
	case PaletteFull, PaletteDiff:
	default:
		return fmt.Errorf("invalid palette mode %q (use 'diff' or 'full')", o.Palette)
	}

	switch o.Dither {
	case DitherNone, DitherFloydSteinberg, DitherSierra2:
	default:
		return fmt.Errorf("invalid dither mode %q (use 'none', 'floyd_steinberg' or 'sierra2')", o.Dither)
	}

	switch o.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", o.ColorMode)
	}

	if o.Level() == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q (use TRACE, DEBUG, INFO, WARN/WARNING or ERROR/CRITICAL)", o.LogLevel)
	}
	if o.FFmpegPath == "" || o.FFprobePath == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	if o.CheckOnly {
		return nil
	}

	if strings.TrimSpace(o.Input) == "" {
		return errors.New("input file is required (--input)")
	}
	if o.Output == "" {
		o.Output = naming.GIFOutputPath(o.Input)
	}

	if o.Start < 0 || o.Duration < 0 || o.Last < 0 {
		return errors.New("start, duration and last must not be negative")
	}
	if o.Width < 0 || o.Height < 0 || o.MaxDimension < 0 {
		return errors.New("width, height and maxdimension must not be negative")
	}
	if o.MaxDimension > 0 && (o.Width > 0 || o.Height > 0) {
		return errors.New("--maxdimension cannot be combined with --width or --height")
	}
	if err := o.Crop.validate(); err != nil {
		return err
	}

	if o.FPS <= 0 {
		return fmt.Errorf("fps must be positive (got %d)", o.FPS)
	}
	if o.Speed <= 0 || math.IsNaN(o.Speed) || math.IsInf(o.Speed, 0) {
		return fmt.Errorf("speed must be a positive number (got %v)", o.Speed)
	}
	if o.Text.Content != "" && o.Text.Size <= 0 {
		return fmt.Errorf("text size must be positive (got %d)", o.Text.Size)
	}
	if o.Sharpen != 0 && !ValidSharpen(o.Sharpen) {
		return fmt.Errorf("invalid sharpen strength %v (use one of %s)", o.Sharpen, sharpenChoices())
	}
	return nil
}

func (c Crop) validate() error {
	if c.W != nil && *c.W <= 0 {
		return fmt.Errorf("crop width must be positive (got %d)", *c.W)
	}
	if c.H != nil && *c.H <= 0 {
		return fmt.Errorf("crop height must be positive (got %d)", *c.H)
	}
	if (c.X != nil && *c.X < 0) || (c.Y != nil && *c.Y < 0) {
		return errors.New("crop position must not be negative")
	}
	return nil
}

// ValidSharpen reports whether v is one of SharpenLevels.
func ValidSharpen(v float64) bool {
	for _, l := range SharpenLevels {
		if math.Abs(v-l) < 1e-9 {
			return true
		}
	}
	return false
}

func sharpenChoices() string {
	parts := make([]string, len(SharpenLevels))
	for i, l := range SharpenLevels {
		parts[i] = fmt.Sprintf("%.1f", l)
	}
	return strings.Join(parts, ", ")
}

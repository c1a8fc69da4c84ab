package planner

import (
	"strings"
	"time"
)

// Kind tags the variant of a Step.
type Kind int

const (
	KindFilter  Kind = iota // Named filter with ordered arguments.
	KindRaw                 // User-supplied filter text, passed through verbatim.
	KindPalette             // split → palettegen / paletteuse branch-and-merge.
)

// Step names emitted by Build.
const (
	StepTrim       = "trim"
	StepCropDetect = "cropdetect"
	StepCrop       = "crop"
	StepScale      = "scale"
	StepSpeed      = "setpts"
	StepFPS        = "fps"
	StepDenoise    = "hqdn3d"
	StepSharpen    = "cas"
	StepText       = "drawtext"
	StepPalette    = "palette"
)

// Engine filters the palette step expands to.
const (
	FilterSplit      = "split"
	FilterPaletteGen = "palettegen"
	FilterPaletteUse = "paletteuse"
)

// Arg is one filter parameter. An empty Key is a positional argument.
// Values are unescaped; the compiler escapes them.
type Arg struct {
	Key   string
	Value string
}

// Step is one operation of the chain.
type Step struct {
	Kind Kind
	Name string
	Args []Arg
	Raw  string // KindRaw only.
}

// Arg returns the value of the keyed argument and whether it is present.
func (s Step) Arg(key string) (string, bool) {
	for _, a := range s.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Positional returns the positional argument values in order.
func (s Step) Positional() []string {
	var out []string
	for _, a := range s.Args {
		if a.Key == "" {
			out = append(out, a.Value)
		}
	}
	return out
}

// Chain is the ordered filter pipeline for one conversion. The palette
// step, when present, is always last.
type Chain struct {
	Steps []Step

	// Duration is the expected output duration (selected span times the
	// speed multiplier); zero when the source duration is unknown.
	Duration time.Duration

	// Notes are human-readable adjustments made while resolving options
	// (e.g. --last overriding --start). The caller logs them.
	Notes []string
}

// Names returns the step names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		names[i] = s.Name
	}
	return names
}

// Filters returns the distinct engine filter names the chain needs, in
// first-use order. Raw steps contribute every filter named in their text.
func (c *Chain) Filters() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, s := range c.Steps {
		switch s.Kind {
		case KindPalette:
			add(FilterSplit)
			add(FilterPaletteGen)
			add(FilterPaletteUse)
		case KindRaw:
			for _, n := range rawFilterNames(s.Raw) {
				add(n)
			}
		default:
			add(s.Name)
		}
	}
	return out
}

// rawFilterNames extracts the filter names from a filter description such
// as "eq=contrast=1.2,hflip". Separators inside single quotes or escaped
// with a backslash do not split. Link labels and "@instance" suffixes are
// ignored.
func rawFilterNames(raw string) []string {
	var names []string
	for _, seg := range splitFilters(raw) {
		seg = strings.TrimSpace(seg)
		for strings.HasPrefix(seg, "[") {
			end := strings.IndexByte(seg, ']')
			if end < 0 {
				seg = ""
				break
			}
			seg = strings.TrimSpace(seg[end+1:])
		}
		if i := strings.IndexAny(seg, "=:[@ \t"); i >= 0 {
			seg = seg[:i]
		}
		if seg != "" {
			names = append(names, seg)
		}
	}
	return names
}

// splitFilters splits a filtergraph on unquoted, unescaped ',' and ';'.
func splitFilters(raw string) []string {
	var segs []string
	var b strings.Builder
	quoted := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			b.WriteByte(c)
			b.WriteByte(raw[i+1])
			i++
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case !quoted && (c == ',' || c == ';'):
			segs = append(segs, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(segs, b.String())
}

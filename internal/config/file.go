package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML defaults file loaded with --config. Every field is
// optional; nil fields leave Options untouched.
//
//	fps: 15
//	maxdimension: 640
//	dither: sierra2
//	extravf: ["eq=saturation=1.2"]
//	text:
//	  size: 48
//	  color: yellow
type File struct {
	FPS          *int     `yaml:"fps"`
	Speed        *float64 `yaml:"speed"`
	Width        *int     `yaml:"width"`
	Height       *int     `yaml:"height"`
	MaxDimension *int     `yaml:"maxdimension"`
	Autocrop     *bool    `yaml:"autocrop"`
	Denoise      *bool    `yaml:"denoise"`
	Sharpen      *float64 `yaml:"sharpen"`
	ExtraFilters []string `yaml:"extravf"`
	Palette      *string  `yaml:"palette"`
	Dither       *string  `yaml:"dither"`
	Overwrite    *bool    `yaml:"overwrite"`
	Progress     *bool    `yaml:"progress"`
	LogLevel     *string  `yaml:"loglevel"`
	LogFile      *string  `yaml:"log_file"`
	LogJSON      *bool    `yaml:"log_json"`
	Color        *string  `yaml:"color"`
	FFmpeg       *string  `yaml:"ffmpeg"`
	FFprobe      *string  `yaml:"ffprobe"`
	Text         FileText `yaml:"text"`
}

// FileText holds the text overlay defaults.
type FileText struct {
	X     *string `yaml:"x"`
	Y     *string `yaml:"y"`
	Size  *int    `yaml:"size"`
	Color *string `yaml:"color"`
	Font  *string `yaml:"font"`
}

// LoadFile reads and decodes a YAML defaults file. Unknown keys are an
// error so that typos do not silently fall back to defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML bytes into a File. An empty document yields an
// empty File.
func ParseFile(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &f, nil
}

// Apply copies every set field into o unless changed reports that the
// corresponding flag was passed explicitly.
func (f *File) Apply(o *Options, changed func(flag string) bool) {
	set(changed, "fps", f.FPS, &o.FPS)
	set(changed, "speed", f.Speed, &o.Speed)
	// Any dimension flag replaces all three file dimensions.
	dims := changed
	if changed("width") || changed("height") || changed("maxdimension") {
		dims = func(string) bool { return true }
	}
	set(dims, "width", f.Width, &o.Width)
	set(dims, "height", f.Height, &o.Height)
	set(dims, "maxdimension", f.MaxDimension, &o.MaxDimension)
	set(changed, "autocrop", f.Autocrop, &o.Autocrop)
	set(changed, "denoise", f.Denoise, &o.Denoise)
	set(changed, "sharpen", f.Sharpen, &o.Sharpen)
	if f.ExtraFilters != nil && !changed("extravf") {
		o.ExtraFilters = append([]string(nil), f.ExtraFilters...)
	}
	if f.Palette != nil && !changed("palette") {
		o.Palette = PaletteMode(*f.Palette)
	}
	if f.Dither != nil && !changed("dither") {
		o.Dither = DitherMode(*f.Dither)
	}
	set(changed, "overwrite", f.Overwrite, &o.Overwrite)
	set(changed, "progress", f.Progress, &o.Progress)
	set(changed, "loglevel", f.LogLevel, &o.LogLevel)
	set(changed, "log-file", f.LogFile, &o.LogFile)
	set(changed, "log-json", f.LogJSON, &o.LogJSON)
	if f.Color != nil && !changed("color") {
		o.ColorMode = ColorMode(*f.Color)
	}
	set(changed, "ffmpeg", f.FFmpeg, &o.FFmpegPath)
	set(changed, "ffprobe", f.FFprobe, &o.FFprobePath)
	set(changed, "text-x", f.Text.X, &o.Text.X)
	set(changed, "text-y", f.Text.Y, &o.Text.Y)
	set(changed, "text-size", f.Text.Size, &o.Text.Size)
	set(changed, "text-color", f.Text.Color, &o.Text.Color)
	set(changed, "text-font", f.Text.Font, &o.Text.Font)
}

// set copies *v into dst when v is set and the flag was not passed.
func set[T any](changed func(string) bool, flag string, v *T, dst *T) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}

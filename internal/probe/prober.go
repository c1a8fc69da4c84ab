package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// ErrNoVideo is returned when the source has no usable video stream.
var ErrNoVideo = errors.New("no video stream found")

// Prober runs ffprobe at Path.
type Prober struct {
	Path string
}

// NewProber returns a Prober for the ffprobe executable at path.
func NewProber(path string) *Prober {
	return &Prober{Path: path}
}

// Probe runs a single ffprobe JSON call against input. Every failure is a
// ProbeError; a source without a video stream is one too.
func (p *Prober) Probe(ctx context.Context, input string) (*SourceInfo, error) {
	cmd := exec.CommandContext(ctx, p.Path,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		input,
	)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, apperr.Probe("probe", fmt.Errorf("ffprobe %q: %w", input, err))
	}

	info, err := ParseJSON(out)
	if err != nil {
		return nil, apperr.Probe("probe", err)
	}
	if info.Video == nil {
		return nil, apperr.Probe("probe", fmt.Errorf("%s: %w", input, ErrNoVideo))
	}
	return info, nil
}

// ParseJSON converts raw ffprobe JSON output into a SourceInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*SourceInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	Index        int            `json:"index"`
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	CodedWidth   int            `json:"coded_width"`
	CodedHeight  int            `json:"coded_height"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	Duration     string         `json:"duration"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildInfo(raw *ffprobeOutput) *SourceInfo {
	info := &SourceInfo{
		Filename:   raw.Format.Filename,
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
		Size:       parseInt64(raw.Format.Size),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" {
			continue
		}
		vs := convertVideo(s)
		if !vs.IsAttachedPic {
			info.Video = &vs
			break
		}
	}

	if info.Duration <= 0 && info.Video != nil {
		info.Duration = info.Video.Duration
	}
	return info
}

func convertVideo(s *ffprobeStream) VideoStream {
	return VideoStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Width:         s.Width,
		Height:        s.Height,
		CodedWidth:    s.CodedWidth,
		CodedHeight:   s.CodedHeight,
		AvgFrameRate:  s.AvgFrameRate,
		Duration:      parseFloat(s.Duration),
		IsAttachedPic: s.Disposition["attached_pic"] == 1,
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

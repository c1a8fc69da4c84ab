package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress renders ffmpeg "-progress pipe:1" output as a progress bar.
// The bar counts milliseconds of output time.
type Progress struct {
	bar      *progressbar.ProgressBar
	total    time.Duration
	current  time.Duration
	finished bool
}

// NewProgress returns a bar over total, or a spinner when total is zero.
func NewProgress(total time.Duration, w io.Writer) *Progress {
	limit := int64(-1)
	if total > 0 {
		limit = total.Milliseconds()
	}
	bar := progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Encoding"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &Progress{bar: bar, total: total}
}

// Consume reads key=value lines until EOF, advancing the bar on out_time
// updates and finishing it on progress=end.
func (p *Progress) Consume(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := parseProgressLine(sc.Text())
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms": // Both are microseconds.
			us, err := strconv.ParseInt(value, 10, 64)
			if err != nil || us < 0 {
				continue
			}
			p.set(time.Duration(us) * time.Microsecond)
		case "progress":
			if value == "end" {
				p.finish()
			}
		}
	}
	return sc.Err()
}

// Current returns the last reported output time.
func (p *Progress) Current() time.Duration { return p.current }

// Finished reports whether progress=end was seen.
func (p *Progress) Finished() bool { return p.finished }

func (p *Progress) set(d time.Duration) {
	if p.total > 0 && d > p.total {
		d = p.total
	}
	p.current = d
	_ = p.bar.Set64(d.Milliseconds())
}

func (p *Progress) finish() {
	if p.finished {
		return
	}
	p.finished = true
	if p.total > 0 {
		p.current = p.total
	}
	_ = p.bar.Finish()
}

func parseProgressLine(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimSpace(line), "=")
	if !ok || key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

package planner

import (
	"errors"

	"github.com/backmassage/gifmaster/internal/config"
)

// Auto is the scale sentinel that lets the engine derive a side from the
// aspect ratio.
const Auto = -1

var errUnknownSize = errors.New("source dimensions are unknown; pass --width or --height")

// ResolveScale returns the output width and height. srcW and srcH are the
// probed source dimensions (zero when unknown).
//
//	width only          → (width, Auto)
//	height only         → (Auto, height)
//	width and height    → (width, height)
//	maxdimension        → larger side clamped when it exceeds the limit
//	nothing             → source size
func ResolveScale(opts *config.Options, srcW, srcH int) (w, h int, err error) {
	switch {
	case opts.MaxDimension > 0:
		if srcW <= 0 || srcH <= 0 {
			return 0, 0, errors.New("source dimensions are unknown; --maxdimension cannot be applied")
		}
		if srcW > srcH {
			if srcW > opts.MaxDimension {
				return opts.MaxDimension, Auto, nil
			}
		} else if srcH > opts.MaxDimension {
			return Auto, opts.MaxDimension, nil
		}
		return srcW, srcH, nil
	case opts.Width > 0 && opts.Height > 0:
		return opts.Width, opts.Height, nil
	case opts.Width > 0:
		return opts.Width, Auto, nil
	case opts.Height > 0:
		return Auto, opts.Height, nil
	}
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, errUnknownSize
	}
	return srcW, srcH, nil
}

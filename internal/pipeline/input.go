package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/backmassage/gifmaster/internal/apperr"
	"github.com/backmassage/gifmaster/internal/naming"
)

// Known video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".vob":  true,
	".ogv":  true,
	".gif":  true,
}

// inputFile describes the input before probing.
type inputFile struct {
	Path string
	Size int64
	MIME string
	URL  bool // Network or protocol source; not inspected.
}

// LooksLikeVideo reports whether the extension or the sniffed content type
// suggests a video or an animation.
func (f *inputFile) LooksLikeVideo() bool {
	if f.URL {
		return true
	}
	if videoExtensions[strings.ToLower(filepath.Ext(f.Path))] {
		return true
	}
	return strings.HasPrefix(f.MIME, "video/") || f.MIME == "image/gif" || f.MIME == "image/webp"
}

// inspectInput stats and sniffs a local input. A missing input or a
// directory is a ProbeError; an unrecognized content type is left for the
// caller to warn about. URL inputs are passed through for ffprobe to judge.
func inspectInput(path string) (*inputFile, error) {
	if naming.IsURL(path) {
		return &inputFile{Path: path, URL: true}, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, apperr.Probe("input", err)
	}
	if fi.IsDir() {
		return nil, apperr.Probe("input", fmt.Errorf("%s is a directory", path))
	}
	f := &inputFile{Path: path, Size: fi.Size()}
	if mt, err := mimetype.DetectFile(path); err == nil {
		f.MIME = mt.String()
	}
	return f, nil
}

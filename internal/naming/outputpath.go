package naming

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// gifExt is the extension of the animated image container.
const gifExt = ".gif"

// GIFOutputPath builds the default output path for input: the same
// directory and stem with a .gif extension.
//
//	clips/intro.mp4  -> clips/intro.gif
//	clips/intro      -> clips/intro.gif
//	clips/intro.gif  -> clips/intro-out.gif   (never the input itself)
//	https://host/v/intro.mp4?x=1 -> intro.gif (current directory)
func GIFOutputPath(input string) string {
	dir, base := filepath.Split(input)
	if IsURL(input) {
		dir, base = "", "stream"
		if u, err := url.Parse(input); err == nil {
			if b := path.Base(u.Path); b != "/" && b != "." {
				base = b
			}
		}
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = base
	}
	if strings.EqualFold(ext, gifExt) {
		stem += "-out"
	}
	return filepath.Join(dir, stem+gifExt)
}

// reScheme matches a URL or protocol prefix such as "https:" or "rtsp:".
// It needs at least two letters so Windows drive letters are not matched.
var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

// IsURL reports whether input names a network or protocol source
// (https://…, rtsp://…, pipe:0) rather than a local file.
func IsURL(input string) bool {
	return reScheme.MatchString(input)
}

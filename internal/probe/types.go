package probe

import "strconv"

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Width         int
	Height        int
	CodedWidth    int
	CodedHeight   int
	AvgFrameRate  string
	Duration      float64
	IsAttachedPic bool
}

// SourceInfo is the parsed output of one ffprobe call. Video is the first
// non-attached-pic video stream (nil if none). Duration is in seconds and
// zero when unknown.
type SourceInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	Video      *VideoStream
}

// Dimensions returns the coded width and height of the primary video
// stream, falling back to the display size when ffprobe reports no coded
// size. Both are zero when there is no video stream.
func (s *SourceInfo) Dimensions() (w, h int) {
	v := s.Video
	if v == nil {
		return 0, 0
	}
	w, h = v.CodedWidth, v.CodedHeight
	if w <= 0 || h <= 0 {
		w, h = v.Width, v.Height
	}
	return w, h
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (s *SourceInfo) Resolution() string {
	w, h := s.Dimensions()
	if w <= 0 || h <= 0 {
		return "unknown"
	}
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}

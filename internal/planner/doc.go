// Package planner turns conversion options and probed source facts into
// an ordered filter chain that the ffmpeg package compiles.
//
// Step order is fixed: trim, cropdetect, crop, scale, setpts, fps, extra
// filters, hqdn3d, cas, drawtext, palette. Each step is skipped when its
// option is absent; scale, setpts, fps and palette are always present.
//
// Files: types.go (Step, Chain), planner.go (Build), trim.go (time
// selection), scale.go (size resolution).
package planner

// Package probe reads source media facts with a single ffprobe JSON call.
//
// Only what the filter-chain builder needs to resolve relative options is
// kept: the primary video stream's coded size and the container duration
// (falling back to the stream duration when the container reports none).
package probe

package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// Realistic ffprobe JSON for an MP4 with:
//   - 1 attached pic (cover art, should be skipped as primary video)
//   - 1 H.264 1920x1080 video stream coded at 1920x1088
//   - 1 AAC audio stream
const sampleMP4 = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "coded_width": 600,
      "coded_height": 900,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "coded_width": 1920,
      "coded_height": 1088,
      "avg_frame_rate": "30000/1001",
      "duration": "59.993267",
      "disposition": { "default": 1, "attached_pic": 0 }
    },
    {
      "index": 2,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "sample_rate": "48000",
      "disposition": { "default": 1, "attached_pic": 0 }
    }
  ],
  "format": {
    "filename": "/media/clips/launch.mp4",
    "nb_streams": 3,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "60.010000",
    "size": "48000000",
    "bit_rate": "6400000"
  }
}`

// WebM without a container duration and without coded sizes.
const sampleWebM = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "vp9",
      "codec_type": "video",
      "width": 1280,
      "height": 720,
      "duration": "12.500000",
      "disposition": { "default": 1, "attached_pic": 0 }
    }
  ],
  "format": {
    "filename": "screen.webm",
    "format_name": "matroska,webm"
  }
}`

const sampleAudioOnly = `{
  "streams": [
    { "index": 0, "codec_name": "mp3", "codec_type": "audio" }
  ],
  "format": { "filename": "song.mp3", "format_name": "mp3", "duration": "180.0" }
}`

func TestParseJSON_MP4(t *testing.T) {
	info, err := ParseJSON([]byte(sampleMP4))
	require.NoError(t, err)

	assert.Equal(t, "/media/clips/launch.mp4", info.Filename)
	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", info.FormatName)
	assert.InDelta(t, 60.01, info.Duration, 1e-9)
	assert.Equal(t, int64(48000000), info.Size)

	require.NotNil(t, info.Video)
	assert.Equal(t, 1, info.Video.Index, "cover art must not be the primary video")
	assert.Equal(t, "h264", info.Video.Codec)
	assert.Equal(t, "30000/1001", info.Video.AvgFrameRate)

	w, h := info.Dimensions()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1088, h, "coded size wins over display size")
	assert.Equal(t, "1920x1088", info.Resolution())
}

func TestParseJSON_FallbacksWithoutCodedSizeOrFormatDuration(t *testing.T) {
	info, err := ParseJSON([]byte(sampleWebM))
	require.NoError(t, err)

	w, h := info.Dimensions()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.InDelta(t, 12.5, info.Duration, 1e-9)
}

func TestParseJSON_NoVideo(t *testing.T) {
	info, err := ParseJSON([]byte(sampleAudioOnly))
	require.NoError(t, err)

	assert.Nil(t, info.Video)
	w, h := info.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Equal(t, "unknown", info.Resolution())
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseJSON_EmptyStreams(t *testing.T) {
	info, err := ParseJSON([]byte(`{"streams": [], "format": {}}`))
	require.NoError(t, err)
	assert.Nil(t, info.Video)
	assert.Zero(t, info.Duration)
}

// --- Probe against stand-in ffprobe executables ---

func fakeFFprobe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stand-ins need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestProbe_Success(t *testing.T) {
	bin := fakeFFprobe(t, "cat <<'JSON'\n"+sampleMP4+"\nJSON\n")

	info, err := NewProber(bin).Probe(context.Background(), "launch.mp4")
	require.NoError(t, err)
	assert.Equal(t, "1920x1088", info.Resolution())
}

func TestProbe_Failure(t *testing.T) {
	bin := fakeFFprobe(t, "echo 'launch.mp4: No such file or directory' >&2\nexit 1\n")

	_, err := NewProber(bin).Probe(context.Background(), "launch.mp4")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProbe, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestProbe_NoVideoStream(t *testing.T) {
	bin := fakeFFprobe(t, "cat <<'JSON'\n"+sampleAudioOnly+"\nJSON\n")

	_, err := NewProber(bin).Probe(context.Background(), "song.mp3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVideo)
	assert.Equal(t, apperr.KindProbe, apperr.KindOf(err))
}

func TestProbe_MissingExecutable(t *testing.T) {
	_, err := NewProber(filepath.Join(t.TempDir(), "nope")).Probe(context.Background(), "a.mp4")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProbe, apperr.KindOf(err))
}

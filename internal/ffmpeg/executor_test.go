package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/gifmaster/internal/apperr"
)

// fakeFFmpeg writes a shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stand-ins need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestExecute_Success(t *testing.T) {
	bin := fakeFFmpeg(t, "echo out-line\necho warn-line >&2\nexit 0\n")

	res, err := NewExecutor(bin, nil).Execute(context.Background(), &Command{Path: bin, Args: []string{"-i", "x"}})
	require.NoError(t, err)
	assert.Equal(t, "out-line\n", res.Stdout)
	assert.Equal(t, "warn-line\n", res.Stderr)
}

func TestExecute_ArgumentsPassedThrough(t *testing.T) {
	bin := fakeFFmpeg(t, `for a in "$@"; do echo "$a"; done`+"\n")

	args := []string{"-filter_complex", "[0:v]fps=12[out]", "out file.gif"}
	res, err := NewExecutor(bin, nil).Execute(context.Background(), &Command{Path: bin, Args: args})
	require.NoError(t, err)
	assert.Equal(t, strings.Join(args, "\n")+"\n", res.Stdout)
}

func TestExecute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		wantKind apperr.Kind
		wantMsg  string
	}{
		{
			"exit status",
			"echo 'clip.mp4: Invalid data found when processing input' >&2\nexit 1\n",
			apperr.KindExecution,
			"status 1",
		},
		{
			"missing filter",
			"echo \"[AVFilterGraph @ 0x1] No such filter: 'cas'\" >&2\nexit 8\n",
			apperr.KindFilterBuild,
			"No such filter",
		},
		{
			"bad filter args",
			"echo \"[Parsed_scale_1 @ 0x2] Error initializing filter 'scale' with args 'x'\" >&2\nexit 1\n",
			apperr.KindFilterBuild,
			"Error initializing filter",
		},
		{
			"existing output with -n",
			"echo \"File 'clip.gif' already exists. Exiting.\" >&2\nexit 1\n",
			apperr.KindExecution,
			"already exists",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := fakeFFmpeg(t, tt.script)
			res, err := NewExecutor(bin, nil).Execute(context.Background(), &Command{Path: bin})
			require.Error(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			var ee *EngineError
			require.ErrorAs(t, err, &ee)
			assert.NotZero(t, ee.ExitCode)
		})
	}
}

func TestExecute_MissingExecutable(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "missing-ffmpeg")
	_, err := NewExecutor(bin, nil).Execute(context.Background(), &Command{Path: bin})
	require.Error(t, err)
	assert.Equal(t, apperr.KindExecution, apperr.KindOf(err))
}

func TestExecute_Canceled(t *testing.T) {
	bin := fakeFFmpeg(t, "exec sleep 10\n")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewExecutor(bin, nil).Execute(ctx, &Command{Path: bin})
	require.Error(t, err)
	assert.Equal(t, apperr.KindExecution, apperr.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecute_Progress(t *testing.T) {
	bin := fakeFFmpeg(t, "printf 'frame=1\\nout_time_us=500000\\nprogress=continue\\n'\n"+
		"printf 'out_time_us=1000000\\nprogress=end\\n'\n")

	var bar bytes.Buffer
	e := NewExecutor(bin, nil)
	e.ProgressOut = &bar
	res, err := e.Execute(context.Background(), &Command{Path: bin, Progress: true, Duration: time.Second})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout, "progress output feeds the bar")
	assert.NotEmpty(t, bar.String())
}

func TestFilters(t *testing.T) {
	bin := fakeFFmpeg(t, "cat <<'EOF'\n"+sampleFilters+"EOF\n")

	set, err := NewExecutor(bin, nil).Filters(context.Background())
	require.NoError(t, err)
	assert.True(t, set["scale"])
	assert.True(t, set["palettegen"])
	assert.False(t, set["cas"])
}

func TestFilters_Failure(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 1\n")
	_, err := NewExecutor(bin, nil).Filters(context.Background())
	assert.Error(t, err)

	bin = fakeFFmpeg(t, "echo nothing useful\n")
	_, err = NewExecutor(bin, nil).Filters(context.Background())
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	bin := fakeFFmpeg(t, "echo 'ffmpeg version 7.1 Copyright (c) 2000-2024'\necho 'built with gcc'\n")
	v, err := NewExecutor(bin, nil).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg version 7.1 Copyright (c) 2000-2024", v)
}

const sampleFilters = `Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  N = Dynamic number and/or type of input/output
  | = Source or sink filter
 ... abench            A->A       Benchmark part of a filtergraph.
 TSC scale             V->V       Scale the input video size and/or convert the image format.
 ... split             V->N       Pass on the input to N video outputs.
 ... palettegen        V->V       Find the optimal palette for a given stream.
 ... paletteuse        VV->V      Use a palette to downsample an input video stream.
 ... buffer            |->V       Buffer video frames, and make them accessible to the filterchain.
 T. fps                V->V       Force constant framerate.
`

func TestParseFilters(t *testing.T) {
	set := ParseFilters(sampleFilters)
	for _, name := range []string{"abench", "scale", "split", "palettegen", "paletteuse", "buffer", "fps"} {
		assert.True(t, set[name], name)
	}
	assert.Len(t, set, 7, "legend lines are not filters")
}

func TestMatchFilterRejected(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"No such filter: 'foo'", true},
		{"Error initializing complex filters.", true},
		{"Error parsing a filter description around: ,x", true},
		{"Error parsing filterchain 'x' around: x", true},
		{"Error applying option 'bogus' to filter 'scale': Option not found", true},
		{"[Parsed_trim_0 @ 0x1] Option 'startt' not found", true},
		{"clip.mp4: No such file or directory", false},
		{"Conversion failed!", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchFilterRejected(tt.stderr), tt.stderr)
	}
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "b; c; d", lastLines("a\nb\n\nc\nd\n", 3))
	assert.Equal(t, "", lastLines("", 3))
}

func TestEngineError(t *testing.T) {
	e := &EngineError{ExitCode: 1, Stderr: "first\nConversion failed!\n"}
	assert.Equal(t, "ffmpeg exited with status 1: first; Conversion failed!", e.Error())
}

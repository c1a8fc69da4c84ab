package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := errors.New("exit status 1")
	err := fmt.Errorf("convert: %w", Execution("ffmpeg", base))

	assert.Equal(t, KindExecution, KindOf(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "convert: ffmpeg: exit status 1", err.Error())
}

func TestKindOf_Plain(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestNew_NilErr(t *testing.T) {
	assert.NoError(t, New(KindProbe, "probe", nil))
}

func TestArgumentf(t *testing.T) {
	err := Argumentf("invalid fps %d", 0)
	assert.Equal(t, KindArgument, KindOf(err))
	assert.Equal(t, "invalid fps 0", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"argument", Argumentf("bad"), 1},
		{"probe", Probe("probe", errors.New("x")), 1},
		{"filter", FilterBuild("scale", errors.New("x")), 1},
		{"execution", Execution("ffmpeg", errors.New("x")), 1},
		{"unclassified", errors.New("x"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ArgumentError", KindArgument.String())
	assert.Equal(t, "ProbeError", KindProbe.String())
	assert.Equal(t, "FilterBuildError", KindFilterBuild.String())
	assert.Equal(t, "ExecutionError", KindExecution.String())
	assert.Equal(t, "Error", KindUnknown.String())
}

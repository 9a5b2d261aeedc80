package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	opts := &RootOptions{Format: "text"}

	stdout, _, err := execute(NewRenderCommand(opts), fixture("clean.yaml"), "--seconds", "0.1", "--sample-rate", "8000")
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "patch:    clean")
	assert.Contains(t, out, "rendered: 800 samples at 8000 Hz (0.100 s)")
	assert.Contains(t, out, "clipped:  0 (0 non-finite)")
	assert.Contains(t, out, "edges:    1 wired, 0 deferred, 0 rejected")
}

func TestRenderJSON(t *testing.T) {
	opts := &RootOptions{Format: "json"}

	stdout, _, err := execute(NewRenderCommand(opts), fixture("clean.yaml"),
		"--seconds", "0.5", "--sample-rate", "8000", "--block-size", "100")
	require.NoError(t, err)

	var res RenderResult
	resp := decode(t, stdout, &res)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "clean", res.Patch)
	assert.Equal(t, 4000, res.Samples)
	assert.InDelta(t, 0.5, res.Peak, 0.01)
	assert.InDelta(t, 0.5/1.4142135623730951, res.RMS, 0.01)
	assert.Zero(t, res.Clipped)
	assert.Equal(t, 1, res.Wired)
}

func TestRenderReportsRejectedEdges(t *testing.T) {
	opts := &RootOptions{Format: "json"}

	stdout, stderr, err := execute(NewRenderCommand(opts), fixture("patch.yaml"), "--seconds", "1", "--sample-rate", "8000")
	require.NoError(t, err)

	var res RenderResult
	decode(t, stdout, &res)

	assert.Equal(t, 7, res.Wired)
	assert.Equal(t, 1, res.Rejected)
	assert.Greater(t, res.Peak, 0.0)
	assert.Contains(t, stderr.String(), "level=WARN")
	assert.Contains(t, stderr.String(), "edge=c3")
}

func TestRenderVerbose(t *testing.T) {
	opts := &RootOptions{Format: "text", Verbose: true}

	_, stderr, err := execute(NewRenderCommand(opts), fixture("clean.yaml"), "--seconds", "0.01")
	require.NoError(t, err)

	log := stderr.String()
	assert.Contains(t, log, "loaded testdata/clean.yaml: 2 nodes, 1 edges")
	assert.Contains(t, log, "level=DEBUG")
	assert.Contains(t, log, "resolutions wired:")
	assert.Contains(t, log, "block 512 samples (10.67 ms), nyquist 24000 Hz")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"missing file", []string{fixture("missing.yaml")}, ExitCommandError, ErrCodeLoad},
		{"bad flags", []string{fixture("clean.yaml"), "--seconds", "0"}, ExitCommandError, ErrCodeFlags},
		{"block too large", []string{fixture("clean.yaml"), "--block-size", "100000"}, ExitCommandError, ErrCodeFlags},
		{"invalid document", []string{fixture("invalid.yaml")}, ExitFailure, ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(NewRenderCommand(&RootOptions{Format: "json"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))

			resp := decode(t, stdout, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.want, resp.Error.Code)
		})
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	return stdout, stderr, cmd.Execute()
}

func decode(t *testing.T, buf *bytes.Buffer, data any) CLIResponse {
	t.Helper()

	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}

	return raw.CLIResponse
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

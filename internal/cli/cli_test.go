package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/testutil"
)

// cliResult captures one command execution.
type cliResult struct {
	Stdout string
	Stderr string
	Err    error
}

// execute runs the root command with opts and args.
func execute(t *testing.T, opts *RootOptions, args ...string) cliResult {
	t.Helper()
	return executeContext(t, context.Background(), opts, args...)
}

func executeContext(t *testing.T, ctx context.Context, opts *RootOptions, args ...string) cliResult {
	t.Helper()
	cmd := newRootCommand(opts)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// stubOptions returns options whose session fetches f and uses token.
func stubOptions(f fetch.Fetcher, token string) *RootOptions {
	return &RootOptions{
		Fetcher: f,
		Tokens:  engine.NewFixedGenerator(token),
	}
}

func storiesFetcher() *testutil.StubFetcher {
	return &testutil.StubFetcher{Records: testutil.Stories()}
}

// isolate runs the test from an empty directory so no config or .env file
// is picked up, and returns a database path inside it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(dir, "stories.db")
}

// decodeData decodes the data field of a JSON CLI response into v.
func decodeData(t *testing.T, stdout string, v interface{}) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// mustAbs resolves path against the package directory before a test
// changes directory.
func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

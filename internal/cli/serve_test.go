package cli

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StopsWithContext(t *testing.T) {
	isolate(t)
	f := storiesFetcher()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	res := executeContext(t, ctx, stubOptions(f, "serve-session"), "serve", "--backend", "memory", "--addr", "127.0.0.1:0")
	require.NoError(t, res.Err)

	assert.Len(t, f.Calls(), 1, "the session fetches exactly once")
	assert.Contains(t, res.Stderr, "server stopped gracefully")
}

func TestServe_AddressInUse(t *testing.T) {
	isolate(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := executeContext(t, ctx, stubOptions(storiesFetcher(), "serve-session"), "serve", "--backend", "memory", "--addr", ln.Addr().String())
	require.Error(t, res.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.Err))
}

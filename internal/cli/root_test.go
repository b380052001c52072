package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "hackerstories", cmd.Use)
	assert.Contains(t, cmd.Long, "Hacker News")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{{"list"}, {"query", "get"}, {"query", "set"}, {"history"}, {"serve"}, {"test"}}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "backend", "db", "redis"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestConfigFlagsAreAnnotated(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, []string{"persist.backend"}, cmd.PersistentFlags().Lookup("backend").Annotations[configKeyAnnotation])

	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch.strict"}, listCmd.Flags().Lookup("strict").Annotations[configKeyAnnotation])
}

func TestInvalidFormat(t *testing.T) {
	isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s"), "list", "--format", "xml")
	require.Error(t, res.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.Err))
	assert.Contains(t, res.Err.Error(), `invalid format "xml"`)
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s"), "list", "--backend", "mongo")
	require.Error(t, res.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.Err))
	assert.Contains(t, res.Err.Error(), "failed to load config")
}

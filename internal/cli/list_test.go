package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/story"
	"github.com/roach88/hackerstories/internal/testutil"
)

func TestList_DefaultQuery(t *testing.T) {
	isolate(t)
	f := storiesFetcher()

	res := execute(t, stubOptions(f, "s1"), "list", "--backend", "memory")
	require.NoError(t, res.Err)

	assert.Contains(t, res.Stdout, "React")
	assert.NotContains(t, res.Stdout, "Redux")
	assert.Contains(t, res.Stdout, `1 of 2 stories match "React"`)
	assert.Equal(t, []string{"https://hn.algolia.com/api/v1/search?query=React"}, f.Calls())
}

func TestList_QueryAndRemove(t *testing.T) {
	isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s1"),
		"list", "--backend", "memory", "--query", "re", "--remove", "0", "--format", "json")
	require.NoError(t, res.Err)

	var got ListResult
	decodeData(t, res.Stdout, &got)
	assert.Equal(t, "s1", got.Session)
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, "re", got.Query)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, []string{"1"}, story.IDs(got.Stories))
}

func TestList_NoMatches(t *testing.T) {
	isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s1"), "list", "--backend", "memory", "--query", "golang")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, `No stories match "golang" (2 fetched).`)
}

func TestList_EndpointFlag(t *testing.T) {
	isolate(t)
	f := storiesFetcher()

	res := execute(t, stubOptions(f, "s1"), "list", "--backend", "memory", "--endpoint", "http://localhost:1/search?query=x")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"http://localhost:1/search?query=x"}, f.Calls())
}

func TestList_FetchFailure(t *testing.T) {
	isolate(t)
	f := &testutil.StubFetcher{Err: &fetch.Error{Endpoint: "x", StatusCode: 503, Err: errors.New("unavailable")}}

	res := execute(t, stubOptions(f, "s1"), "list", "--backend", "memory")
	require.Error(t, res.Err)
	assert.Equal(t, ExitFailure, GetExitCode(res.Err))
	assert.True(t, fetch.IsFetchFailed(res.Err))
	assert.Contains(t, res.Stdout, "Something went wrong")
}

func TestList_FetchFailureJSON(t *testing.T) {
	isolate(t)
	f := &testutil.StubFetcher{Err: &fetch.Error{Endpoint: "x", Err: errors.New("refused")}}

	res := execute(t, stubOptions(f, "s1"), "list", "--backend", "memory", "--format", "json")
	require.Error(t, res.Err)
	assert.Contains(t, res.Stdout, `"status":"error"`)
	assert.Contains(t, res.Stdout, `"code":"E001"`)
}

func TestList_QueryPersistsAcrossRuns(t *testing.T) {
	db := isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s1"), "list", "--db", db, "--query", "redux")
	require.NoError(t, res.Err)

	res = execute(t, stubOptions(storiesFetcher(), "s2"), "list", "--db", db, "--format", "json")
	require.NoError(t, res.Err)

	var got ListResult
	decodeData(t, res.Stdout, &got)
	assert.Equal(t, "redux", got.Query)
	assert.Equal(t, []string{"1"}, story.IDs(got.Stories))
}

func TestList_BackendUnavailable(t *testing.T) {
	isolate(t)

	res := execute(t, stubOptions(storiesFetcher(), "s1"), "list", "--db", "/nonexistent-dir/x/stories.db")
	require.Error(t, res.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.Err))
	assert.Contains(t, res.Err.Error(), "failed to open backend")
}

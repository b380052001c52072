package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/roach88/hackerstories/internal/story"
)

const twoHits = `{
  "hits": [
    {"title": "React", "url": "https://reactjs.org/", "author": "Jordan Walke", "num_comments": 3, "points": 4, "objectID": "0", "_tags": ["story"]},
    {"title": "Redux", "url": "https://redux.js.org/", "author": "Dan Abramov, Andrew Clark", "num_comments": 2, "points": 5, "objectID": "1"}
  ],
  "nbHits": 2,
  "page": 0
}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_DecodesHits(t *testing.T) {
	srv := newServer(t, http.StatusOK, twoHits)

	records, err := NewHTTPFetcher().Fetch(context.Background(), Endpoint(srv.URL, "re"))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, story.Record{
		Title:        "React",
		URL:          "https://reactjs.org/",
		Author:       "Jordan Walke",
		CommentCount: 3,
		Points:       4,
		ID:           "0",
	}, records[0])
	assert.Equal(t, "1", records[1].ID)
}

func TestHTTPFetcher_ToleratesMissingFields(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"hits": [{"objectID": "7"}]}`)

	records, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, story.Record{ID: "7"}, records[0])
}

func TestHTTPFetcher_MissingHitsIsEmpty(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{}`)

	records, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, `oops`)

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsFetchFailed(err))

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, srv.URL, fe.Endpoint)
}

func TestHTTPFetcher_MalformedBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"hits": [`)

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "decode body")
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	srv := newServer(t, http.StatusOK, twoHits)
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), url)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHTTPFetcher_CancelledContext(t *testing.T) {
	srv := newServer(t, http.StatusOK, twoHits)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher().Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPFetcher_Limiter(t *testing.T) {
	srv := newServer(t, http.StatusOK, twoHits)
	// Burst of 1 with a long interval: the second call cannot get a token
	// before the context deadline.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	f := NewHTTPFetcher(WithLimiter(limiter))

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestHTTPFetcher_Validation(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	good := newServer(t, http.StatusOK, twoHits)
	records, err := NewHTTPFetcher(WithValidation(schema)).Fetch(context.Background(), good.URL)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	bad := newServer(t, http.StatusOK, `{"hits": [{"title": "", "objectID": "3"}]}`)
	_, err = NewHTTPFetcher(WithValidation(schema)).Fetch(context.Background(), bad.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "hits[0]")
}

func TestFetcherFunc(t *testing.T) {
	var got string
	f := FetcherFunc(func(_ context.Context, endpoint string) ([]story.Record, error) {
		got = endpoint
		return nil, nil
	})

	_, err := f.Fetch(context.Background(), "https://example.test")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", got)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://hn.algolia.com/api/v1/search?query=react", Endpoint("", "react"))
	assert.Equal(t, "http://x/search?query=go+lang%26more", Endpoint("http://x/search", "go lang&more"))
	assert.Equal(t, "http://x/search?tags=story&query=", Endpoint("http://x/search?tags=story", ""))
}

func TestErrorMessage(t *testing.T) {
	withStatus := &Error{Endpoint: "http://x", StatusCode: 500, Err: errors.New("boom")}
	assert.Equal(t, "fetch http://x: status 500: boom", withStatus.Error())

	noStatus := &Error{Endpoint: "http://x", Err: errors.New("refused")}
	assert.Equal(t, "fetch http://x: refused", noStatus.Error())
	assert.False(t, IsFetchFailed(errors.New("other")))
}

package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hackerstories/internal/story"
)

func TestSchema_AcceptsCompleteRecords(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	err = schema.Validate([]story.Record{
		{Title: "React", URL: "https://reactjs.org/", Author: "Jordan Walke", CommentCount: 3, Points: 4, ID: "0"},
		{Title: "Ask HN: anything", ID: "1"},
	})
	assert.NoError(t, err)
}

func TestSchema_RejectsEmptyTitle(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	err = schema.Validate([]story.Record{{Title: "ok", ID: "0"}, {ID: "1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hits[1]")
}

func TestSchema_RejectsMissingID(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	assert.Error(t, schema.Validate([]story.Record{{Title: "no id"}}))
}

func TestSchema_RejectsNegativeCounts(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	assert.Error(t, schema.Validate([]story.Record{{Title: "t", ID: "0", Points: -1}}))
	assert.Error(t, schema.Validate([]story.Record{{Title: "t", ID: "0", CommentCount: -2}}))
}

func TestSchema_EmptyPayload(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	assert.NoError(t, schema.Validate(nil))
}

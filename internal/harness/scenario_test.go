package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: basic
description: basic scenario
session: s-1
query: re
steps:
  - action: fetch_start
  - action: fetch_success
    records:
      - {id: "0", title: React, num_comments: 3, points: 4}
  - action: remove
    id: "0"
assertions:
  - type: count
    count: 0
`))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, "s-1", s.Session)
	assert.Equal(t, "re", s.Query)
	require.Len(t, s.Steps, 3)
	require.Len(t, s.Steps[1].Records, 1)

	r := s.Steps[1].Records[0].Record()
	assert.Equal(t, "React", r.Title)
	assert.Equal(t, 3, r.CommentCount)
	assert.Equal(t, 4, r.Points)
	assert.Equal(t, "0", r.ID)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: y\nsteps: [{action: fetch_start}]\nassertions: [{type: count}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nsteps: [{action: fetch_start}]\nassertions: [{type: count}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: y\nassertions: [{type: count}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: x\ndescription: y\nsteps: [{action: fetch_start}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown action",
			yaml:    "name: x\ndescription: y\nsteps: [{action: refresh}]\nassertions: [{type: count}]\n",
			wantErr: `unknown action "refresh"`,
		},
		{
			name:    "remove without id",
			yaml:    "name: x\ndescription: y\nsteps: [{action: remove}]\nassertions: [{type: count}]\n",
			wantErr: "id is required for remove",
		},
		{
			name:    "record without id",
			yaml:    "name: x\ndescription: y\nsteps: [{action: fetch_success, records: [{title: a}]}]\nassertions: [{type: count}]\n",
			wantErr: "steps[0].records[0]: id is required",
		},
		{
			name:    "bad status",
			yaml:    "name: x\ndescription: y\nsteps: [{action: fetch_start}]\nassertions: [{type: status, status: busy}]\n",
			wantErr: `unknown status "busy"`,
		},
		{
			name:    "empty trace order",
			yaml:    "name: x\ndescription: y\nsteps: [{action: fetch_start}]\nassertions: [{type: trace_order}]\n",
			wantErr: "kinds list is required",
		},
		{
			name:    "bad step expectation",
			yaml:    "name: x\ndescription: y\nsteps: [{action: fetch_start, expect: [{type: nope}]}]\nassertions: [{type: count}]\n",
			wantErr: `steps[0].expect[0]: unknown assertion type "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"name: f\ndescription: d\nsteps: [{action: fetch_start}]\nassertions: [{type: status, status: loading}]\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "f", s.Name)
}

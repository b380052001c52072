package fetch

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/hackerstories/internal/story"
)

// recordSchema constrains a decoded hit. Fields use the wire names.
const recordSchema = `
#Record: {
	title:        string & !=""
	url:          string
	author:       string
	num_comments: int & >=0
	points:       int & >=0
	objectID:     string & !=""
}
`

// Schema validates records against the CUE record definition.
//
// A Schema is not safe for concurrent use; HTTPFetcher serializes access.
type Schema struct {
	ctx *cue.Context
	def cue.Value
}

// NewSchema compiles the record schema.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(recordSchema)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Record"))
	if !def.Exists() {
		return nil, fmt.Errorf("compile record schema: #Record not found")
	}
	return &Schema{ctx: ctx, def: def}, nil
}

// Validate checks every record and returns the first violation, prefixed
// with the index of the offending hit.
func (s *Schema) Validate(records []story.Record) error {
	for i, r := range records {
		v := s.def.Unify(s.ctx.Encode(r))
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return fmt.Errorf("hits[%d]: %s", i, errors.Details(err, nil))
		}
	}
	return nil
}

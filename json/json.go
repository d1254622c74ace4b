// Package json provides a JSON renderer implementation.
package json

import (
	"encoding/json"
	"strings"

	"github.com/zoobzio/depict"
)

// jsonRenderer implements depict.Renderer for JSON.
type jsonRenderer struct{}

// New returns a JSON renderer.
func New() depict.Renderer {
	return &jsonRenderer{}
}

// Format returns the registry name for JSON.
func (r *jsonRenderer) Format() string {
	return "json"
}

// ContentType returns the MIME type for JSON.
func (r *jsonRenderer) ContentType() string {
	return "application/json"
}

// Render encodes the structure as JSON. SortKeys converts ordered results
// to plain maps, which encoding/json emits with sorted keys.
func (r *jsonRenderer) Render(v any, opts depict.RenderOptions) ([]byte, error) {
	if opts.SortKeys {
		v = depict.Plain(v)
	}
	if opts.Indent > 0 {
		return json.MarshalIndent(v, "", strings.Repeat(" ", opts.Indent))
	}
	return json.Marshal(v)
}

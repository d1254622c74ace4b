// Package csv provides a CSV renderer implementation.
//
// The structure must be a sequence of mappings (or a single mapping, which
// is treated as a one-row sequence). The header comes from the first row's
// keys; later rows emit cells in header order, with missing keys rendered
// as empty cells.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/zoobzio/depict"
)

// csvRenderer implements depict.Renderer for CSV.
type csvRenderer struct{}

// New returns a CSV renderer.
func New() depict.Renderer {
	return &csvRenderer{}
}

// Format returns the registry name for CSV.
func (r *csvRenderer) Format() string {
	return "csv"
}

// ContentType returns the MIME type for CSV.
func (r *csvRenderer) ContentType() string {
	return "text/csv"
}

// Render encodes the structure as CSV.
func (r *csvRenderer) Render(v any, opts depict.RenderOptions) ([]byte, error) {
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var header []string
	for _, item := range items {
		row, keys, err := rowOf(item, opts)
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = keys
			if err := w.Write(header); err != nil {
				return nil, err
			}
		}
		cells := make([]string, len(header))
		for i, key := range header {
			if val, ok := row[key]; ok {
				cells[i] = cell(val)
			}
		}
		if err := w.Write(cells); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// rowOf views one item as a key/value row plus its key order.
func rowOf(item any, opts depict.RenderOptions) (map[string]any, []string, error) {
	switch t := item.(type) {
	case *depict.Result:
		keys := t.Keys()
		if opts.SortKeys {
			sort.Strings(keys)
		}
		row := make(map[string]any, len(keys))
		for _, k := range keys {
			val, _ := t.Get(k)
			row[k] = val
		}
		return row, keys, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return t, keys, nil
	default:
		return nil, nil, fmt.Errorf("csv: cannot render %T as a row", item)
	}
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

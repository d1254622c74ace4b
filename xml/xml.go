// Package xml provides an XML renderer implementation.
//
// The structure is wrapped in a <root> element; mapping keys become element
// names and sequence items become <list-item> elements. It is a simple
// renderer by design; element names are taken from output keys verbatim.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/depict"
)

// xmlRenderer implements depict.Renderer for XML.
type xmlRenderer struct{}

// New returns an XML renderer.
func New() depict.Renderer {
	return &xmlRenderer{}
}

// Format returns the registry name for XML.
func (r *xmlRenderer) Format() string {
	return "xml"
}

// ContentType returns the MIME type for XML.
func (r *xmlRenderer) ContentType() string {
	return "application/xml"
}

// Render encodes the structure as XML.
func (r *xmlRenderer) Render(v any, opts depict.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if opts.Indent > 0 {
		enc.Indent("", strings.Repeat(" ", opts.Indent))
	}

	root := xml.StartElement{Name: xml.Name{Local: "root"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	if err := writeValue(enc, v, opts); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(enc *xml.Encoder, v any, opts depict.RenderOptions) error {
	switch t := v.(type) {
	case nil:
		// A null value produces an empty element.
		return nil
	case *depict.Result:
		entries := t.Entries()
		if opts.SortKeys {
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		}
		for _, e := range entries {
			if err := writeElement(enc, e.Key, e.Value, opts); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := writeElement(enc, k, t[k], opts); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, item := range t {
			if err := writeElement(enc, "list-item", item, opts); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.EncodeToken(xml.CharData(fmt.Sprintf("%v", t)))
	}
}

func writeElement(enc *xml.Encoder, name string, v any, opts depict.RenderOptions) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeValue(enc, v, opts); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

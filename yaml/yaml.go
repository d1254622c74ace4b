// Package yaml provides a YAML renderer implementation.
package yaml

import (
	"bytes"

	"github.com/zoobzio/depict"
	"gopkg.in/yaml.v3"
)

// yamlRenderer implements depict.Renderer for YAML.
type yamlRenderer struct{}

// New returns a YAML renderer.
func New() depict.Renderer {
	return &yamlRenderer{}
}

// Format returns the registry name for YAML.
func (r *yamlRenderer) Format() string {
	return "yaml"
}

// ContentType returns the MIME type for YAML.
func (r *yamlRenderer) ContentType() string {
	return "application/yaml"
}

// Render encodes the structure as YAML. SortKeys converts ordered results
// to plain maps, which yaml.v3 emits with sorted keys; FlowStyle switches
// every mapping and sequence to inline flow form.
func (r *yamlRenderer) Render(v any, opts depict.RenderOptions) ([]byte, error) {
	if opts.SortKeys {
		v = depict.Plain(v)
	}

	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	if opts.FlowStyle {
		setFlow(&node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if opts.Indent > 0 {
		enc.SetIndent(opts.Indent)
	}
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setFlow recursively marks mappings and sequences for flow structuring.
func setFlow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}

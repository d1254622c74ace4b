package depict

import (
	"bytes"
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair of a Result, carrying the field rule that
// produced it for renderers needing per-field metadata.
type Entry struct {
	Key   string
	Value any
	Field Declared
}

// Result is the mapping produced by decomposing one object. It records
// insertion order; an order-preserving Result (see PreserveOrder) emits
// keys in field-resolution order, otherwise keys are sorted so output stays
// deterministic.
type Result struct {
	entries []Entry
	ordered bool
}

func newResult(ordered bool) *Result {
	return &Result{ordered: ordered}
}

// set stores a value under key. Writing an existing key replaces the value
// in place: last write wins.
func (r *Result) set(key string, v any, origin Declared) {
	for i := range r.entries {
		if r.entries[i].Key == key {
			r.entries[i].Value = v
			r.entries[i].Field = origin
			return
		}
	}
	r.entries = append(r.entries, Entry{Key: key, Value: v, Field: origin})
}

// Get returns the value stored under key.
func (r *Result) Get(key string) (any, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (r *Result) Len() int { return len(r.entries) }

// Entries returns the entries in emission order.
func (r *Result) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	if !r.ordered {
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	}
	return out
}

// Keys returns the output keys in emission order.
func (r *Result) Keys() []string {
	entries := r.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON emits the entries as a JSON object in emission order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits the entries as a YAML mapping in emission order.
func (r *Result) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r.Entries() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Plain recursively converts a serialized structure into plain maps and
// slices, losing ordering and field metadata. Renderers without ordered-map
// support and tests comparing structures use it.
func Plain(v any) any {
	switch t := v.(type) {
	case *Result:
		out := make(map[string]any, t.Len())
		for _, e := range t.entries {
			out[e.Key] = Plain(e.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Plain(val)
		}
		return out
	default:
		return v
	}
}

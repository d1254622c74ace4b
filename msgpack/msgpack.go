// Package msgpack provides a MessagePack renderer implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/depict"
)

// msgpackRenderer implements depict.Renderer for MessagePack.
type msgpackRenderer struct{}

// New returns a MessagePack renderer.
func New() depict.Renderer {
	return &msgpackRenderer{}
}

// Format returns the registry name for MessagePack.
func (r *msgpackRenderer) Format() string {
	return "msgpack"
}

// ContentType returns the MIME type for MessagePack.
func (r *msgpackRenderer) ContentType() string {
	return "application/msgpack"
}

// Render encodes the structure as MessagePack. Ordered results are written
// as maps in emission order; SortKeys forces sorted keys throughout.
func (r *msgpackRenderer) Render(v any, opts depict.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if opts.SortKeys {
		enc.SetSortMapKeys(true)
		if err := enc.Encode(depict.Plain(v)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := encodeValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeValue writes v, encoding Result mappings entry by entry so their
// key order survives.
func encodeValue(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case *depict.Result:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		for _, e := range t.Entries() {
			if err := enc.EncodeString(e.Key); err != nil {
				return err
			}
			if err := encodeValue(enc, e.Value); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, item := range t {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(v)
	}
}

package depict

import (
	"context"
	"time"
)

// encodeConfig accumulates per-call encode options.
type encodeConfig struct {
	render      RenderOptions
	naturalKeys bool
}

// EncodeOption configures a single Encode call.
type EncodeOption func(*encodeConfig)

// Indent pretty-prints the rendered output with the given width.
func Indent(n int) EncodeOption {
	return func(c *encodeConfig) { c.render.Indent = n }
}

// SortKeys forces deterministic, sorted key order in the rendered output.
func SortKeys() EncodeOption {
	return func(c *encodeConfig) { c.render.SortKeys = true }
}

// FlowStyle selects compact inline structuring for formats distinguishing
// it from block structuring.
func FlowStyle() EncodeOption {
	return func(c *encodeConfig) { c.render.FlowStyle = true }
}

// UseNaturalKeys swaps related-field resolution to natural keys for this
// call, without reconfiguring the serializer.
func UseNaturalKeys() EncodeOption {
	return func(c *encodeConfig) { c.naturalKeys = true }
}

// Encode serializes obj and renders the resulting structure with the
// renderer registered under format. An unregistered format fails before
// any serialization work with an error satisfying
// errors.Is(err, ErrUnsupportedFormat). Use Serialize to obtain the plain
// structure without rendering.
func (s *Serializer) Encode(ctx context.Context, obj any, format string, opts ...EncodeOption) ([]byte, error) {
	var cfg encodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r, ok := lookupRenderer(format)
	if !ok {
		return nil, &FormatError{Format: format}
	}

	typeName := s.adapter().TypeName(obj)

	start := time.Now()
	emitEncodeStart(ctx, format, typeName)

	var retErr error
	var out []byte
	defer func() {
		emitEncodeComplete(ctx, format, typeName, len(out), time.Since(start), retErr)
	}()

	data, err := s.serializeRoot(ctx, obj, cfg.naturalKeys)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	out, err = r.Render(data, cfg.render)
	if err != nil {
		retErr = newRenderError(format, err)
		return nil, retErr
	}
	return out, nil
}

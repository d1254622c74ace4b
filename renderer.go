package depict

// RenderOptions are the universal rendering knobs understood by every
// backend. Backends ignore options that have no meaning for their format.
type RenderOptions struct {
	// Indent is the pretty-print width; zero means compact output.
	Indent int

	// SortKeys forces deterministic, sorted key order even for
	// order-preserving results.
	SortKeys bool

	// FlowStyle selects compact inline structuring where the format
	// distinguishes it from block structuring (YAML).
	FlowStyle bool
}

// Renderer is a pluggable text-encoding backend consuming the plain
// serialized structure. Renderers are pure functions of (structure,
// options) and must not retain or mutate the structure.
type Renderer interface {
	// Format returns the registry name, e.g. "json".
	Format() string

	// ContentType returns the MIME type, e.g. "application/json".
	ContentType() string

	// Render encodes the structure.
	Render(v any, opts RenderOptions) ([]byte, error)
}

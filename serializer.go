package depict

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/creachadair/mds/mapset"
)

// options is the resolved per-instance configuration of a Serializer.
// Resolution order: constructor option > Extends base > library default.
type options struct {
	source          string
	label           string
	include         []string
	exclude         []string
	fieldList       []string
	includeDefaults bool
	preserveOrder   bool
	depth           *int
	naturalKeys     bool
	transform       func(any) (any, error)
	adapter         Adapter
}

// merge folds src into o. Options set on src override o, so with multiple
// Extends bases the later base wins per option, mirroring how inherited
// fields merge.
func (o *options) merge(src options) {
	if src.source != "" {
		o.source = src.source
	}
	if src.label != "" {
		o.label = src.label
	}
	if src.include != nil {
		o.include = src.include
	}
	if src.exclude != nil {
		o.exclude = src.exclude
	}
	if src.fieldList != nil {
		o.fieldList = src.fieldList
	}
	if src.includeDefaults {
		o.includeDefaults = true
	}
	if src.preserveOrder {
		o.preserveOrder = true
	}
	if src.depth != nil {
		o.depth = src.depth
	}
	if src.naturalKeys {
		o.naturalKeys = true
	}
	if src.transform != nil {
		o.transform = src.transform
	}
	if src.adapter != nil {
		o.adapter = src.adapter
	}
}

// config accumulates constructor options before resolution.
type config struct {
	bases    []*Serializer
	declared []namedField
	setters  []func(*options)
}

func (c *config) set(fn func(*options)) {
	c.setters = append(c.setters, fn)
}

// Option configures a Serializer.
type Option func(*config)

// Fields sets the explicit allow-list of field names. When non-empty it
// wholly determines the field set; Include, Exclude and default-field
// discovery are ignored.
func Fields(names ...string) Option {
	return func(c *config) { c.set(func(o *options) { o.fieldList = names }) }
}

// Include adds field names beyond the declared and default sets.
func Include(names ...string) Option {
	return func(c *config) { c.set(func(o *options) { o.include = names }) }
}

// Exclude removes field names from the effective set.
func Exclude(names ...string) Option {
	return func(c *config) { c.set(func(o *options) { o.exclude = names }) }
}

// IncludeDefaults merges the adapter's default field names with the declared
// fields. Default names are used automatically when no fields are declared.
func IncludeDefaults() Option {
	return func(c *config) { c.set(func(o *options) { o.includeDefaults = true }) }
}

// PreserveOrder keeps output keys in field-resolution order. Without it,
// keys are emitted in sorted order for determinism.
func PreserveOrder() Option {
	return func(c *config) { c.set(func(o *options) { o.preserveOrder = true }) }
}

// Depth bounds nested-object expansion. Depth(0) flattens every composite
// attribute of the root; each nested level receives one less. Protected
// scalars are never affected.
func Depth(n int) Option {
	return func(c *config) { c.set(func(o *options) { o.depth = &n }) }
}

// WithSource overrides the attribute name a nested Serializer reads from.
// The WholeObject sentinel serializes the containing object itself.
func WithSource(name string) Option {
	return func(c *config) { c.set(func(o *options) { o.source = name }) }
}

// WithLabel overrides the output key a nested Serializer is stored under.
func WithLabel(label string) Option {
	return func(c *config) { c.set(func(o *options) { o.label = label }) }
}

// WithTransform replaces the serializer's value serialization with a custom
// function. Errors returned by fn propagate to the caller unchanged.
func WithTransform(fn func(any) (any, error)) Option {
	return func(c *config) { c.set(func(o *options) { o.transform = fn }) }
}

// WithNaturalKeys flattens related objects to their natural keys instead of
// surrogate identifiers throughout the subtree.
func WithNaturalKeys() Option {
	return func(c *config) { c.set(func(o *options) { o.naturalKeys = true }) }
}

// WithAdapter replaces the object model adapter for this serializer's
// subtree. The default is StructAdapter.
func WithAdapter(a Adapter) Option {
	return func(c *config) { c.set(func(o *options) { o.adapter = a }) }
}

// Declare attaches an explicitly declared field under the given name.
// Declarations keep their field creation order; a name redeclared after
// Extends overrides the inherited rule and takes the new position.
func Declare(name string, field Declared) Option {
	return func(c *config) {
		c.declared = append(c.declared, namedField{name: name, field: field})
	}
}

// Extends inherits the base serializer's declared fields and options.
// Ancestor fields come first; options act as defaults overridable by
// constructor options regardless of argument order. With multiple bases,
// fields merge in base order and each option comes from the last base
// that set it.
func Extends(base *Serializer) Option {
	return func(c *config) { c.bases = append(c.bases, base) }
}

// namedField pairs a field name with its declared rule.
type namedField struct {
	name  string
	field Declared
}

// Serializer decomposes an object into a mapping of named, serialized
// sub-values. It is itself usable as a declared field of another
// Serializer. A Serializer is safe for concurrent use once constructed;
// all per-call state is threaded through the traversal.
type Serializer struct {
	opts   options
	seq    uint64
	fields []namedField
}

// New builds a Serializer from the given options.
func New(opts ...Option) *Serializer {
	s := newSerializer(opts)
	emitSerializerCreated(context.Background(), len(s.fields))
	return s
}

func newSerializer(optFns []Option) *Serializer {
	var c config
	for _, opt := range optFns {
		opt(&c)
	}

	var o options
	for _, base := range c.bases {
		o.merge(base.opts)
	}
	for _, set := range c.setters {
		set(&o)
	}

	s := &Serializer{opts: o, seq: nextSeq()}
	for _, base := range c.bases {
		for _, nf := range base.fields {
			s.declare(nf.name, nf.field.copyDecl())
		}
	}

	// Own declarations ordered by the process-wide creation sequence, so
	// output ordering is deterministic however the fields were built.
	own := slices.Clone(c.declared)
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].field.declOrder() < own[j].field.declOrder()
	})
	for _, nf := range own {
		s.declare(nf.name, nf.field.copyDecl())
	}
	return s
}

// declare appends a field; a redeclared name replaces the earlier rule and
// takes the new position.
func (s *Serializer) declare(name string, d Declared) {
	for i, nf := range s.fields {
		if nf.name == name {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			break
		}
	}
	s.fields = append(s.fields, namedField{name: name, field: d})
}

func (s *Serializer) lookup(name string) (Declared, bool) {
	for _, nf := range s.fields {
		if nf.name == name {
			return nf.field, true
		}
	}
	return nil, false
}

func (s *Serializer) adapter() Adapter {
	if s.opts.adapter != nil {
		return s.opts.adapter
	}
	return StructAdapter{}
}

// Serialize converts obj into a plain nested structure of Result mappings,
// slices and scalars. The source object is never mutated; calling Serialize
// twice on the same unmodified object yields structurally equal results.
func (s *Serializer) Serialize(ctx context.Context, obj any) (any, error) {
	return s.serializeRoot(ctx, obj, false)
}

func (s *Serializer) serializeRoot(ctx context.Context, obj any, naturalKeys bool) (any, error) {
	ad := s.adapter()
	typeName := ad.TypeName(obj)

	start := time.Now()
	emitSerializeStart(ctx, typeName)

	tr := &traversal{
		adapter:     ad,
		depth:       s.opts.depth,
		naturalKeys: s.opts.naturalKeys || naturalKeys,
	}
	out, err := s.serialize(tr, obj)

	emitSerializeComplete(ctx, typeName, time.Since(start), err)
	return out, err
}

// serialize dispatches on the value classification, in fixed precedence:
// protected scalar, simple callable, collection, sequence, mapping,
// composite decomposition.
func (s *Serializer) serialize(tr *traversal, v any) (any, error) {
	switch classify(v) {
	case kindScalar:
		return normalizeScalar(v), nil
	case kindCallable:
		out, err := callSimple(v)
		if err != nil {
			return nil, err
		}
		return s.serialize(tr, out)
	case kindCollection, kindSequence, kindMapping:
		id := identity(v)
		if id != 0 && tr.onStack(id) {
			// A container revisited on this path is a cycle. Containers
			// carry no identifier, so the broken reference becomes null.
			return nil, nil
		}
		return s.serializeContainer(tr.push(id), v)
	default:
		id := identity(v)
		if id != 0 && tr.onStack(id) {
			// Cycle: flatten the repeated object instead of recursing.
			return flatten(tr, v)
		}
		return s.decompose(tr.push(id), v)
	}
}

func (s *Serializer) serializeContainer(tr *traversal, v any) (any, error) {
	switch classify(v) {
	case kindCollection:
		return s.serializeItems(tr, v.(Collection).All())
	case kindSequence:
		return s.serializeItems(tr, anySlice(v))
	default:
		return s.serializeMapping(tr, v)
	}
}

func (s *Serializer) serializeItems(tr *traversal, items []any) (any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := s.serialize(tr, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Serializer) serializeMapping(tr *traversal, v any) (any, error) {
	out := make(map[string]any)
	for key, val := range mapEntries(v) {
		sv, err := s.serialize(tr, val)
		if err != nil {
			return nil, err
		}
		out[key] = sv
	}
	return out, nil
}

// decompose runs the field-decomposition state machine on one composite
// object: resolve the effective field names, pick a rule per name, and fold
// (key, value) pairs into the result container.
func (s *Serializer) decompose(tr *traversal, obj any) (any, error) {
	names, err := s.fieldNames(tr, obj)
	if err != nil {
		return nil, err
	}

	res := newResult(s.opts.preserveOrder)
	child := tr.descend()
	for _, name := range names {
		d := s.fieldFor(tr, obj, name)
		val, err := d.resolve(child, obj, name)
		if err != nil {
			return nil, err
		}
		// Duplicate output keys: last write wins.
		res.set(d.resolveKey(name), val, d)
	}
	return res, nil
}

// fieldNames computes the effective field name list. An explicit Fields
// list wholly determines the set; otherwise declared names, default names
// (when enabled or nothing is declared) and Include are merged in first
// occurrence order, minus Exclude.
func (s *Serializer) fieldNames(tr *traversal, obj any) ([]string, error) {
	if len(s.opts.fieldList) > 0 {
		return s.opts.fieldList, nil
	}
	names := make([]string, 0, len(s.fields))
	for _, nf := range s.fields {
		names = append(names, nf.name)
	}
	if s.opts.includeDefaults || len(s.fields) == 0 {
		defaults, err := tr.adapter.DefaultFieldNames(obj)
		if err != nil {
			return nil, err
		}
		names = append(names, defaults...)
	}
	names = append(names, s.opts.include...)
	return dedupe(names, s.opts.exclude), nil
}

// fieldFor picks the rule serializing one named attribute. A declared field
// always wins over a same-named default attribute. Undeclared names get a
// flat field once the depth budget is exhausted (relations flatten to their
// identifier), otherwise a default nested serializer.
func (s *Serializer) fieldFor(tr *traversal, obj any, name string) Declared {
	if d, ok := s.lookup(name); ok {
		return d
	}
	if tr.depth != nil && *tr.depth <= 0 {
		if tr.adapter.IsRelation(obj, name) {
			return Related()
		}
		return NewField()
	}
	return newSerializer(nil)
}

// Declared implementation: a Serializer used as a declared field.

func (s *Serializer) resolveKey(name string) string {
	if s.opts.label != "" {
		return s.opts.label
	}
	if s.opts.source != "" && s.opts.source != WholeObject {
		return s.opts.source
	}
	return name
}

func (s *Serializer) resolve(tr *traversal, obj any, name string) (any, error) {
	tr = tr.withOptions(s.opts)
	if s.opts.source == WholeObject {
		if s.opts.transform != nil {
			return s.opts.transform(obj)
		}
		// The containing object is already on the traversal stack; go
		// straight to decomposition rather than re-guarding it.
		return s.decompose(tr, obj)
	}
	n := name
	if s.opts.source != "" {
		n = s.opts.source
	}
	v, err := tr.adapter.Attribute(obj, n)
	if err != nil {
		return nil, err
	}
	if s.opts.transform != nil {
		return s.opts.transform(v)
	}
	return s.serialize(tr, v)
}

func (s *Serializer) copyDecl() Declared {
	c := &Serializer{opts: s.opts, seq: s.seq}
	for _, nf := range s.fields {
		c.fields = append(c.fields, namedField{name: nf.name, field: nf.field.copyDecl()})
	}
	return c
}

func (s *Serializer) declOrder() uint64 { return s.seq }

// dedupe removes duplicates and excluded names, preserving first-occurrence
// order.
func dedupe(names, exclude []string) []string {
	skip := mapset.New(exclude...)
	seen := mapset.New[string]()
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen.Has(n) || skip.Has(n) {
			continue
		}
		seen.Add(n)
		out = append(out, n)
	}
	return out
}

// traversal is the per-call context threaded through a serialization pass:
// the object model adapter, the remaining depth budget, the related-field
// policy, and the chain of ancestor identities on the current root-to-node
// path. Traversals are copied, never mutated, so sibling branches each see
// their own path.
type traversal struct {
	adapter     Adapter
	stack       []uintptr
	depth       *int
	naturalKeys bool
}

func (tr *traversal) onStack(id uintptr) bool {
	return slices.Contains(tr.stack, id)
}

// push returns a copy with id appended to the ancestor chain.
func (tr *traversal) push(id uintptr) *traversal {
	c := *tr
	if id != 0 {
		c.stack = append(slices.Clip(tr.stack), id)
	}
	return &c
}

// descend returns a copy with one less level of depth budget.
func (tr *traversal) descend() *traversal {
	c := *tr
	if tr.depth != nil {
		d := *tr.depth - 1
		c.depth = &d
	}
	return &c
}

// withOptions applies a nested serializer's own overrides to the traversal.
func (tr *traversal) withOptions(o options) *traversal {
	c := *tr
	if o.adapter != nil {
		c.adapter = o.adapter
	}
	if o.depth != nil {
		c.depth = o.depth
	}
	if o.naturalKeys {
		c.naturalKeys = true
	}
	return &c
}

package depict

import "sync/atomic"

// creationSeq is the process-wide allocator ordering field declarations.
// It is written only at construction time and read-only during
// serialization.
var creationSeq atomic.Uint64

func nextSeq() uint64 { return creationSeq.Add(1) }

// WholeObject is the source sentinel meaning "serialize the containing
// object itself" rather than one of its named attributes.
const WholeObject = "*"

// variant tags the closed set of field behaviors.
type variant int

const (
	variantValue variant = iota
	variantRelated
	variantNaturalKey
	variantTypeName
)

// Declared is anything usable as an explicitly declared serializer field:
// a *Field or a nested *Serializer.
type Declared interface {
	// resolveKey returns the output key for a field looked up under name.
	resolveKey(name string) string

	// resolve produces the serialized value of the named attribute of obj.
	resolve(tr *traversal, obj any, name string) (any, error)

	// copyDecl returns a per-instance copy so declared fields are never
	// shared mutably between sibling serializers.
	copyDecl() Declared

	// declOrder returns the creation sequence used to order declarations.
	declOrder() uint64
}

// Field is the atomic serialization rule: one attribute name mapped to one
// output value.
type Field struct {
	source    string
	label     string
	seq       uint64
	variant   variant
	transform func(any) (any, error)
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// Source overrides the attribute name the field reads from. The WholeObject
// sentinel makes the field serialize the containing object itself.
func Source(name string) FieldOption {
	return func(f *Field) { f.source = name }
}

// Label overrides the output key the field's value is stored under.
func Label(label string) FieldOption {
	return func(f *Field) { f.label = label }
}

// Transform replaces the field's serialization with a custom function.
// Errors returned by fn propagate to the caller unchanged.
func Transform(fn func(any) (any, error)) FieldOption {
	return func(f *Field) { f.transform = fn }
}

// NewField returns a flat value field: protected values pass through,
// sequences serialize element-wise, callables are invoked, and anything
// else is rendered to its canonical string form.
func NewField(opts ...FieldOption) *Field {
	return newField(variantValue, opts)
}

// Related returns a field that flattens a relation to its stable
// identifier, or to a sequence of identifiers for a to-many relation.
func Related(opts ...FieldOption) *Field {
	return newField(variantRelated, opts)
}

// NaturalKey returns a field that resolves a related object to its natural
// (business) key instead of its surrogate identifier.
func NaturalKey(opts ...FieldOption) *Field {
	return newField(variantNaturalKey, opts)
}

// TypeName returns a field that reports the fully-qualified type name of
// the containing object, not the value of any attribute.
func TypeName(opts ...FieldOption) *Field {
	return newField(variantTypeName, opts)
}

func newField(v variant, opts []FieldOption) *Field {
	f := &Field{variant: v, seq: nextSeq()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) resolveKey(name string) string {
	if f.label != "" {
		return f.label
	}
	if f.source != "" && f.source != WholeObject {
		return f.source
	}
	return name
}

func (f *Field) resolve(tr *traversal, obj any, name string) (any, error) {
	if f.variant == variantTypeName {
		return tr.adapter.TypeName(obj), nil
	}
	if f.source == WholeObject {
		return f.serialize(tr, obj)
	}
	if f.source != "" {
		name = f.source
	}
	if f.variant == variantRelated && !tr.naturalKeys {
		return tr.adapter.RelatedIdentifier(obj, name)
	}
	v, err := tr.adapter.Attribute(obj, name)
	if err != nil {
		return nil, err
	}
	return f.serialize(tr, v)
}

// serialize is the value-level transform of a resolved attribute.
func (f *Field) serialize(tr *traversal, v any) (any, error) {
	if f.transform != nil {
		// Transforms see the computed value, not the accessor itself.
		v, err := invokeCallable(v)
		if err != nil {
			return nil, err
		}
		return f.transform(v)
	}
	if f.variant == variantNaturalKey {
		return naturalKeyOf(tr, v)
	}
	return flatten(tr, v)
}

func (f *Field) copyDecl() Declared {
	c := *f
	return &c
}

func (f *Field) declOrder() uint64 { return f.seq }

// naturalKeyOf resolves v (or each item of a to-many collection) to its
// natural key.
func naturalKeyOf(tr *traversal, v any) (any, error) {
	switch classify(v) {
	case kindScalar:
		return normalizeScalar(v), nil
	case kindCollection:
		return naturalKeysOf(tr, v.(Collection).All())
	case kindSequence:
		return naturalKeysOf(tr, anySlice(v))
	default:
		return tr.adapter.NaturalKey(v)
	}
}

func naturalKeysOf(tr *traversal, items []any) (any, error) {
	keys := make([]any, 0, len(items))
	for _, item := range items {
		key, err := tr.adapter.NaturalKey(item)
		if err != nil {
			return nil, err
		}
		keys = append(keys, any(key))
	}
	return keys, nil
}

// flatten is the flat fallback: the representation used for depth-exhausted
// fields and broken cycles. Related objects collapse to their identifier
// (or natural key when that policy is active), everything else to its
// string form.
func flatten(tr *traversal, v any) (any, error) {
	switch classify(v) {
	case kindScalar:
		return normalizeScalar(v), nil
	case kindCallable:
		out, err := callSimple(v)
		if err != nil {
			return nil, err
		}
		return flatten(tr, out)
	case kindCollection, kindSequence, kindMapping:
		id := identity(v)
		if id != 0 && tr.onStack(id) {
			// A container revisited on this path is a cycle. Containers
			// carry no identifier, so the broken reference becomes null.
			return nil, nil
		}
		tr = tr.push(id)
		switch classify(v) {
		case kindCollection:
			return flattenItems(tr, v.(Collection).All())
		case kindSequence:
			return flattenItems(tr, anySlice(v))
		default:
			return flattenMapping(tr, v)
		}
	default:
		if tr.naturalKeys {
			if key, err := tr.adapter.NaturalKey(v); err == nil {
				return key, nil
			}
		}
		if id, ok := tr.adapter.Identifier(v); ok {
			return id, nil
		}
		return stringify(v), nil
	}
}

func flattenItems(tr *traversal, items []any) (any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		flat, err := flatten(tr, item)
		if err != nil {
			return nil, err
		}
		out = append(out, flat)
	}
	return out, nil
}

func flattenMapping(tr *traversal, v any) (any, error) {
	out := make(map[string]any)
	for key, val := range mapEntries(v) {
		flat, err := flatten(tr, val)
		if err != nil {
			return nil, err
		}
		out[key] = flat
	}
	return out, nil
}

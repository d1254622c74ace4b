package depict

import (
	"reflect"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the depict tag with sentinel so Scan picks it up.
	sentinel.Tag("depict")
}

// tagName is the struct tag consulted by StructAdapter.
// Supported forms: `depict:"name"` renames, `depict:"-"` hides from default
// discovery, `depict:"id"` marks the identifier field.
const tagName = "depict"

// Adapter supplies the host object model's introspection capabilities.
// The core never touches object internals directly; every attribute read
// goes through an Adapter.
type Adapter interface {
	// DefaultFieldNames returns the ordered field names to serialize when
	// none are explicitly configured.
	DefaultFieldNames(obj any) ([]string, error)

	// Attribute fetches a named attribute. A missing attribute is reported
	// with an error satisfying errors.Is(err, ErrMissingAttribute).
	Attribute(obj any, name string) (any, error)

	// IsRelation reports whether the named attribute refers to one or more
	// related objects carrying stable identifiers.
	IsRelation(obj any, name string) bool

	// RelatedIdentifier resolves a relation field to its stable identifier,
	// or to a sequence of identifiers for a to-many relation.
	RelatedIdentifier(obj any, name string) (any, error)

	// Identifier extracts the stable identifier of a related object itself.
	Identifier(v any) (any, bool)

	// NaturalKey returns the business key of a related object.
	NaturalKey(obj any) ([]any, error)

	// TypeName returns the qualified type name of an object, e.g.
	// "depicttest.Person".
	TypeName(obj any) string
}

// NaturalKeyer exposes a business-meaningful alternate identifier, used in
// place of the surrogate identifier when natural-key resolution is active.
type NaturalKeyer interface {
	NaturalKey() []any
}

// Scan registers T's metadata with sentinel ahead of first use, so the
// StructAdapter can serve it without a reflection fallback. Calling Scan is
// optional; unregistered types are scanned on demand.
func Scan[T any]() {
	sentinel.Scan[T]()
}

// attrInfo is the cached per-field view StructAdapter works from.
type attrInfo struct {
	name   string // output name: tag rename or Go field name
	goName string
	index  []int
	hidden bool // depict:"-": excluded from defaults, reachable via Include
	isID   bool // depict:"id"
}

var (
	attrCache   = make(map[reflect.Type][]attrInfo)
	attrCacheMu sync.RWMutex
)

// StructAdapter is the default Adapter for plain Go structs. Exported fields
// in declaration order are the default field set; zero-argument methods act
// as computed fields; identifiers come from a `depict:"id"` tag or a field
// named ID.
type StructAdapter struct{}

func (StructAdapter) DefaultFieldNames(obj any) ([]string, error) {
	attrs, ok := structAttrs(obj)
	if !ok {
		return nil, ErrNotComposite
	}
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.hidden {
			continue
		}
		names = append(names, a.name)
	}
	return names, nil
}

func (ad StructAdapter) Attribute(obj any, name string) (any, error) {
	if attrs, ok := structAttrs(obj); ok {
		for _, a := range attrs {
			if a.name == name || a.goName == name {
				rv := structValue(obj)
				f, ok := fieldByIndex(rv, a.index)
				if !ok {
					return nil, nil
				}
				return f.Interface(), nil
			}
		}
	}

	// Fall back to a zero-argument method: computed fields serialize the
	// method's result.
	if m := methodByName(obj, name); m.IsValid() {
		fn := m.Interface()
		if isSimpleCallable(fn) {
			return fn, nil
		}
	}

	return nil, newAttributeError(ad.TypeName(obj), name)
}

func (StructAdapter) IsRelation(obj any, name string) bool {
	attrs, ok := structAttrs(obj)
	if !ok {
		return false
	}
	for _, a := range attrs {
		if a.name != name && a.goName != name {
			continue
		}
		rv := structValue(obj)
		t := rv.Type().FieldByIndex(a.index).Type
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct || t == reflect.TypeFor[time.Time]() {
			return false
		}
		_, hasID := typeAttrID(t)
		return hasID
	}
	return false
}

func (ad StructAdapter) RelatedIdentifier(obj any, name string) (any, error) {
	v, err := ad.Attribute(obj, name)
	if err != nil {
		return nil, err
	}
	switch classify(v) {
	case kindScalar:
		// Nil relation flattens to nil.
		return normalizeScalar(v), nil
	case kindCollection:
		return ad.relatedIdentifiers(v.(Collection).All(), name)
	case kindSequence:
		rv := reflect.ValueOf(v)
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return ad.relatedIdentifiers(items, name)
	default:
		id, ok := ad.Identifier(v)
		if !ok {
			return nil, &IdentifierError{Type: ad.TypeName(v), Field: name}
		}
		return id, nil
	}
}

func (ad StructAdapter) relatedIdentifiers(items []any, name string) (any, error) {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		id, ok := ad.Identifier(item)
		if !ok {
			return nil, &IdentifierError{Type: ad.TypeName(item), Field: name}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (StructAdapter) Identifier(v any) (any, bool) {
	rv := structValue(v)
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	idx, ok := typeAttrID(rv.Type())
	if !ok {
		return nil, false
	}
	f, ok := fieldByIndex(rv, idx)
	if !ok {
		return nil, false
	}
	return f.Interface(), true
}

func (StructAdapter) NaturalKey(obj any) ([]any, error) {
	if nk, ok := obj.(NaturalKeyer); ok {
		return nk.NaturalKey(), nil
	}
	return nil, ErrNoNaturalKey
}

func (StructAdapter) TypeName(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// structValue dereferences pointers down to the underlying value.
func structValue(obj any) reflect.Value {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}

// fieldByIndex is FieldByIndex tolerating nil intermediate pointers.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for _, i := range index {
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(i)
	}
	return rv, true
}

// methodByName looks up a method on the value or its address.
func methodByName(obj any, name string) reflect.Value {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return reflect.Value{}
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return m
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		rv = rv.Addr()
	} else if rv.Kind() != reflect.Pointer {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p
	}
	return rv.MethodByName(name)
}

// structAttrs returns the cached attribute view for obj's struct type.
func structAttrs(obj any) ([]attrInfo, bool) {
	rv := structValue(obj)
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	return typeAttrs(rv.Type()), true
}

// typeAttrID returns the index path of t's identifier field.
func typeAttrID(t reflect.Type) ([]int, bool) {
	for _, a := range typeAttrs(t) {
		if a.isID {
			return a.index, true
		}
	}
	for _, a := range typeAttrs(t) {
		if a.goName == "ID" {
			return a.index, true
		}
	}
	return nil, false
}

// typeAttrs builds (or serves from cache) the attribute view of a struct
// type. Registered sentinel metadata is preferred; unregistered types fall
// back to a direct reflection scan.
func typeAttrs(t reflect.Type) []attrInfo {
	attrCacheMu.RLock()
	if cached, ok := attrCache[t]; ok {
		attrCacheMu.RUnlock()
		return cached
	}
	attrCacheMu.RUnlock()

	attrCacheMu.Lock()
	defer attrCacheMu.Unlock()

	if cached, ok := attrCache[t]; ok {
		return cached
	}

	attrs := scanType(t)
	attrCache[t] = attrs
	return attrs
}

func scanType(t reflect.Type) []attrInfo {
	if meta, ok := sentinel.Lookup(t.String()); ok {
		return attrsFromMetadata(t, meta)
	}

	var attrs []attrInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		attrs = append(attrs, attrFromTag(sf.Name, sf.Index, sf.Tag.Get(tagName)))
	}
	return attrs
}

func attrsFromMetadata(t reflect.Type, meta sentinel.Metadata) []attrInfo {
	attrs := make([]attrInfo, 0, len(meta.Fields))
	for _, field := range meta.Fields {
		sf, ok := t.FieldByName(field.Name)
		if !ok || !sf.IsExported() {
			continue
		}
		attrs = append(attrs, attrFromTag(field.Name, sf.Index, field.Tags[tagName]))
	}
	return attrs
}

func attrFromTag(goName string, index []int, tag string) attrInfo {
	a := attrInfo{name: goName, goName: goName, index: index}
	switch tag {
	case "":
	case "-":
		a.hidden = true
	case "id":
		a.isID = true
	default:
		a.name = tag
	}
	return a
}

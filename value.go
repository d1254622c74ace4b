package depict

import (
	"fmt"
	"reflect"
	"time"
)

// valueKind describes how a value participates in serialization.
// Dispatch precedence is fixed: scalar, callable, collection, sequence,
// mapping, composite.
type valueKind int

const (
	kindScalar valueKind = iota
	kindCallable
	kindCollection
	kindSequence
	kindMapping
	kindComposite
)

// Collection is implemented by lazily-fetched groups of related objects.
// Values implementing it serialize as the sequence returned by All.
type Collection interface {
	All() []any
}

var errType = reflect.TypeFor[error]()

// isProtected reports whether v is an atomic value that passes through the
// pipeline unchanged.
func isProtected(v any) bool {
	switch v.(type) {
	case nil, bool, string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, time.Duration:
		return true
	}
	return false
}

// isSimpleCallable reports whether v is a func value that can be invoked
// with no arguments, returning a single value or a value plus an error.
// Method values obtained from an object satisfy this for zero-argument
// methods, which is how computed fields are serialized.
func isSimpleCallable(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return false
	}
	t := rv.Type()
	if t.IsVariadic() || t.NumIn() != 0 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errType
	}
	return false
}

// callSimple invokes a simple callable exactly once. The callable's error,
// if any, propagates unchanged.
func callSimple(v any) (any, error) {
	out := reflect.ValueOf(v).Call(nil)
	if len(out) == 2 {
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// invokeCallable reduces v to a plain value by invoking simple callables
// until the result is no longer one. Non-callables pass through untouched.
func invokeCallable(v any) (any, error) {
	for isSimpleCallable(v) {
		out, err := callSimple(v)
		if err != nil {
			return nil, err
		}
		v = out
	}
	return v, nil
}

// classify sorts v into the tagged union driving serialization dispatch.
// Classification has no side effects; callables are only invoked later, in
// the serialize path.
func classify(v any) valueKind {
	if isProtected(v) {
		return kindScalar
	}
	if isSimpleCallable(v) {
		return kindCallable
	}
	if _, ok := v.(Collection); ok {
		return kindCollection
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return kindScalar
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return kindSequence
	case reflect.Map:
		return kindMapping
	default:
		return kindComposite
	}
}

// normalizeScalar collapses typed nil pointers and interfaces to untyped nil
// so renderers see a uniform null value.
func normalizeScalar(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !isProtected(rv.Interface()) {
		return v
	}
	return rv.Interface()
}

// stringify renders a non-protected value to its canonical string form.
func stringify(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// anySlice copies a slice or array value into a []any.
func anySlice(v any) []any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// mapEntries copies a map value into a map keyed by string form.
func mapEntries(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprintf("%v", k)
		}
		out[key] = iter.Value().Interface()
	}
	return out
}

// identity returns a stable identity for cycle detection, or zero when the
// value has no meaningful identity (plain value types cannot alias).
func identity(v any) uintptr {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		return rv.Pointer()
	default:
		return 0
	}
}

// Package depict converts rich in-memory objects into plain nested data
// structures (maps, slices, scalars) suitable for rendering to JSON, YAML,
// XML, CSV or MessagePack.
//
// The package is a declarative replacement for ad hoc "dump" code: a
// Serializer holds named Field rules describing which attributes of an object
// to include, how each attribute is transformed, and what key it is stored
// under. Serialization is one-directional (object to data) and never mutates
// the source object.
//
// # Basic Usage
//
//	type Person struct {
//	    FirstName string
//	    LastName  string
//	    Age       int
//	}
//
//	s := depict.New()
//	data, _ := s.Serialize(ctx, Person{"john", "doe", 42})
//	// map keys: FirstName, LastName, Age
//
// # Declared Fields
//
// Fields are declared explicitly, in declaration order:
//
//	s := depict.New(
//	    depict.Declare("FullName", depict.NewField(depict.Label("Full name"))),
//	    depict.Declare("Age", depict.NewField()),
//	    depict.Fields("FullName", "Age"),
//	)
//
// A nested Serializer is itself usable as a declared field, producing a
// nested mapping. Declared fields from a base Serializer are inherited with
// depict.Extends; a redeclared name overrides the inherited rule.
//
// # Field Selection
//
// The effective field set for an object is computed from the options:
//
//   - Fields: explicit allow-list; when set it wholly determines the set
//     and Include/Exclude are ignored.
//   - Include: adds attributes not discovered by default.
//   - Exclude: removes attributes.
//   - IncludeDefaults: merges the adapter's default field names with the
//     declared fields (defaults are used automatically when no fields are
//     declared).
//
// # Depth and Cycles
//
// Depth(n) bounds nested-object expansion: with Depth(0) every composite
// attribute of the root is flattened to its identifier or string form, with
// Depth(1) one level of nesting is kept, and so on. Reference cycles are
// detected per root-to-node path and broken by flattening the repeated
// object; a repeated slice or map has no identifier and its back-reference
// becomes null. Two sibling branches may share a common descendant without
// being treated as a cycle.
//
// # Field Variants
//
// Beyond the flat value field, three variants cover relational models:
//
//   - Related: a to-one relation becomes its stable identifier, a to-many
//     relation a sequence of identifiers.
//   - NaturalKey: the related object's business key instead of its
//     surrogate identifier.
//   - TypeName: the fully-qualified type name of the containing object.
//
// # Object Model Adapters
//
// Attribute access is pluggable. The default StructAdapter reads exported
// struct fields (honoring `depict:"name"` renames and `depict:"-"`
// exclusion), falls back to zero-argument methods for computed fields, and
// finds identifiers via a `depict:"id"` tag or an ID field. Host object
// models with richer introspection implement the Adapter interface.
//
// # Rendering
//
// Encode serializes and then renders through a registered backend:
//
//	depict.Register(json.New())
//	out, _ := s.Encode(ctx, obj, "json", depict.Indent(2), depict.SortKeys())
//
// The following renderer implementations are available as subpackages:
//
//   - json - JSON (application/json)
//   - yaml - YAML (application/yaml)
//   - xml - XML (application/xml)
//   - csv - CSV (text/csv)
//   - msgpack - MessagePack (application/msgpack)
//
// Renderers are pure functions of (structure, options); an unknown format
// name is a hard error.
package depict

package depict

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/depict/depicttest"
)

func TestStructAdapterDefaultFieldNames(t *testing.T) {
	names, err := StructAdapter{}.DefaultFieldNames(depicttest.Account{})
	if err != nil {
		t.Fatalf("DefaultFieldNames() error: %v", err)
	}

	// Hidden is tagged out of default discovery.
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("DefaultFieldNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestStructAdapterDefaultFieldNamesNonStruct(t *testing.T) {
	if _, err := (StructAdapter{}).DefaultFieldNames(42); !errors.Is(err, ErrNotComposite) {
		t.Errorf("DefaultFieldNames(42) error = %v, want ErrNotComposite", err)
	}
}

func TestStructAdapterAttribute(t *testing.T) {
	obj := depicttest.Account{A: 1, Hidden: "secret"}

	got, err := StructAdapter{}.Attribute(obj, "A")
	if err != nil {
		t.Fatalf("Attribute() error: %v", err)
	}
	if got != 1 {
		t.Errorf("Attribute(A) = %v, want 1", got)
	}

	// Hidden fields stay reachable by name.
	got, err = StructAdapter{}.Attribute(obj, "Hidden")
	if err != nil {
		t.Fatalf("Attribute() error: %v", err)
	}
	if got != "secret" {
		t.Errorf("Attribute(Hidden) = %v, want %q", got, "secret")
	}
}

func TestStructAdapterAttributeThroughPointer(t *testing.T) {
	obj := &depicttest.Book{Title: "go"}

	got, err := StructAdapter{}.Attribute(obj, "Title")
	if err != nil {
		t.Fatalf("Attribute() error: %v", err)
	}
	if got != "go" {
		t.Errorf("Attribute(Title) = %v, want %q", got, "go")
	}
}

func TestStructAdapterAttributeMethod(t *testing.T) {
	obj := depicttest.Person{FirstName: "john", LastName: "doe"}

	got, err := StructAdapter{}.Attribute(obj, "FullName")
	if err != nil {
		t.Fatalf("Attribute() error: %v", err)
	}
	if !isSimpleCallable(got) {
		t.Fatalf("Attribute(FullName) = %T, want a simple callable", got)
	}
	v, err := callSimple(got)
	if err != nil {
		t.Fatalf("callSimple() error: %v", err)
	}
	if v != "john doe" {
		t.Errorf("FullName() = %v, want %q", v, "john doe")
	}
}

func TestStructAdapterAttributeMissing(t *testing.T) {
	_, err := StructAdapter{}.Attribute(depicttest.Person{}, "Nope")
	if !errors.Is(err, ErrMissingAttribute) {
		t.Fatalf("Attribute() error = %v, want ErrMissingAttribute", err)
	}

	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("Attribute() error type = %T, want *AttributeError", err)
	}
	if attrErr.Type != "depicttest.Person" || attrErr.Field != "Nope" {
		t.Errorf("AttributeError = %+v, want Type depicttest.Person, Field Nope", attrErr)
	}
}

func TestStructAdapterIsRelation(t *testing.T) {
	tests := []struct {
		name  string
		obj   any
		field string
		want  bool
	}{
		{"to-one relation", &depicttest.Book{}, "Author", true},
		{"to-many relation", &depicttest.Library{}, "Books", true},
		{"scalar field", &depicttest.Book{}, "Title", false},
		{"composite without identifier", struct{ P depicttest.Person }{}, "P", false},
		{"missing field", &depicttest.Book{}, "Nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (StructAdapter{}).IsRelation(tt.obj, tt.field); got != tt.want {
				t.Errorf("IsRelation(%s) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestStructAdapterRelatedIdentifier(t *testing.T) {
	book := &depicttest.Book{ID: 7, Author: &depicttest.Author{ID: 1, Name: "jane"}}

	got, err := StructAdapter{}.RelatedIdentifier(book, "Author")
	if err != nil {
		t.Fatalf("RelatedIdentifier() error: %v", err)
	}
	if got != 1 {
		t.Errorf("RelatedIdentifier() = %v, want 1", got)
	}
}

func TestStructAdapterRelatedIdentifierNil(t *testing.T) {
	book := &depicttest.Book{ID: 7}

	got, err := StructAdapter{}.RelatedIdentifier(book, "Author")
	if err != nil {
		t.Fatalf("RelatedIdentifier() error: %v", err)
	}
	if got != nil {
		t.Errorf("RelatedIdentifier() = %v, want nil", got)
	}
}

func TestStructAdapterRelatedIdentifierToMany(t *testing.T) {
	lib := &depicttest.Library{Books: []*depicttest.Book{{ID: 1}, {ID: 2}}}

	got, err := StructAdapter{}.RelatedIdentifier(lib, "Books")
	if err != nil {
		t.Fatalf("RelatedIdentifier() error: %v", err)
	}
	want := []any{1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RelatedIdentifier() mismatch (-want +got):\n%s", diff)
	}
}

func TestStructAdapterRelatedIdentifierMissingID(t *testing.T) {
	obj := struct{ P *depicttest.Person }{P: &depicttest.Person{FirstName: "a"}}

	_, err := StructAdapter{}.RelatedIdentifier(obj, "P")
	if !errors.Is(err, ErrNoIdentifier) {
		t.Errorf("RelatedIdentifier() error = %v, want ErrNoIdentifier", err)
	}
}

func TestStructAdapterIdentifier(t *testing.T) {
	id, ok := StructAdapter{}.Identifier(&depicttest.Book{ID: 7})
	if !ok || id != 7 {
		t.Errorf("Identifier() = %v, %v, want 7, true", id, ok)
	}

	if _, ok := (StructAdapter{}).Identifier(depicttest.Person{}); ok {
		t.Error("Identifier() on a type without ID should report false")
	}
}

func TestStructAdapterIdentifierTag(t *testing.T) {
	type tagged struct {
		Code string `depict:"id"`
		Name string
	}

	id, ok := StructAdapter{}.Identifier(tagged{Code: "x1"})
	if !ok || id != "x1" {
		t.Errorf("Identifier() = %v, %v, want x1, true", id, ok)
	}
}

func TestStructAdapterTagRename(t *testing.T) {
	type renamed struct {
		Name string `depict:"display_name"`
	}

	names, err := StructAdapter{}.DefaultFieldNames(renamed{})
	if err != nil {
		t.Fatalf("DefaultFieldNames() error: %v", err)
	}
	want := []string{"display_name"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("DefaultFieldNames() mismatch (-want +got):\n%s", diff)
	}

	// Renamed fields resolve under both the tag name and the Go name.
	obj := renamed{Name: "x"}
	for _, lookup := range []string{"display_name", "Name"} {
		got, err := StructAdapter{}.Attribute(obj, lookup)
		if err != nil {
			t.Fatalf("Attribute(%s) error: %v", lookup, err)
		}
		if got != "x" {
			t.Errorf("Attribute(%s) = %v, want %q", lookup, got, "x")
		}
	}
}

func TestStructAdapterNaturalKey(t *testing.T) {
	key, err := StructAdapter{}.NaturalKey(&depicttest.Author{Name: "jane"})
	if err != nil {
		t.Fatalf("NaturalKey() error: %v", err)
	}
	if len(key) != 1 || key[0] != "jane" {
		t.Errorf("NaturalKey() = %v, want [jane]", key)
	}

	if _, err := (StructAdapter{}).NaturalKey(depicttest.Person{}); !errors.Is(err, ErrNoNaturalKey) {
		t.Errorf("NaturalKey() error = %v, want ErrNoNaturalKey", err)
	}
}

func TestStructAdapterTypeName(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{depicttest.Person{}, "depicttest.Person"},
		{&depicttest.Book{}, "depicttest.Book"},
		{nil, "<nil>"},
		{42, "int"},
	}

	for _, tt := range tests {
		if got := (StructAdapter{}).TypeName(tt.v); got != tt.want {
			t.Errorf("TypeName(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestScanRegistersType(t *testing.T) {
	Scan[depicttest.Account]()

	names, err := StructAdapter{}.DefaultFieldNames(depicttest.Account{})
	if err != nil {
		t.Fatalf("DefaultFieldNames() error: %v", err)
	}
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("DefaultFieldNames() after Scan mismatch (-want +got):\n%s", diff)
	}
}

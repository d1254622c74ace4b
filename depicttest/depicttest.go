// Package depicttest provides shared fixture types for depict tests.
package depicttest

// Account is a simple flat type with a field hidden from default discovery.
type Account struct {
	A      int
	B      string
	C      bool
	Hidden string `depict:"-"`
}

// Person exercises computed fields: FullName and IsChild are zero-argument
// methods serialized by naming them in the field set.
type Person struct {
	FirstName string
	LastName  string
	Age       int
}

const childAge = 16

// FullName returns the person's display name.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// IsChild reports whether the person is under the age of majority.
func (p Person) IsChild() bool {
	return p.Age < childAge
}

// Author is the to-one target of Book relations.
type Author struct {
	ID   int
	Name string
	Pick *Book // favourite book; cyclic with Book.Author
}

// NaturalKey returns the author's business key.
func (a *Author) NaturalKey() []any {
	return []any{a.Name}
}

// Book carries a to-one relation back to its Author.
type Book struct {
	ID     int
	Title  string
	Author *Author
}

// Shelf is a to-many relation manager: it yields its books on demand.
type Shelf struct {
	Books []*Book
}

// All fetches every book on the shelf.
func (s Shelf) All() []any {
	out := make([]any, len(s.Books))
	for i, b := range s.Books {
		out[i] = b
	}
	return out
}

// Library holds a to-many relation to books.
type Library struct {
	ID    int
	Name  string
	Books []*Book
}

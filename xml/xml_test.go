package xml

import (
	"context"
	"testing"

	"github.com/zoobzio/depict"
	"github.com/zoobzio/depict/depicttest"
)

func TestFormat(t *testing.T) {
	r := New()
	if r.Format() != "xml" {
		t.Errorf("Format() = %q, want %q", r.Format(), "xml")
	}
	if r.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", r.ContentType(), "application/xml")
	}
}

func TestRender(t *testing.T) {
	out, err := depict.New(depict.Fields("A", "B"), depict.PreserveOrder()).
		Serialize(context.Background(), depicttest.Account{A: 1, B: "foo"})
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	data, err := New().Render(out, depict.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "<root><A>1</A><B>foo</B></root>"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

func TestRenderNested(t *testing.T) {
	book := &depicttest.Book{ID: 7, Title: "go", Author: &depicttest.Author{ID: 1, Name: "jane"}}

	s := depict.New(depict.Fields("Title", "Author"), depict.PreserveOrder())
	out, err := s.Serialize(context.Background(), book)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	data, err := New().Render(out, depict.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "<root><Title>go</Title><Author><ID>1</ID><Name>jane</Name><Pick></Pick></Author></root>"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

func TestRenderSequence(t *testing.T) {
	books := []any{
		&depicttest.Book{ID: 1, Title: "a"},
		&depicttest.Book{ID: 2, Title: "b"},
	}
	s := depict.New(depict.Fields("Title"), depict.PreserveOrder())
	out, err := s.Serialize(context.Background(), books)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	data, err := New().Render(out, depict.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "<root><list-item><Title>a</Title></list-item><list-item><Title>b</Title></list-item></root>"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

func TestRenderSortKeys(t *testing.T) {
	out, err := depict.New(depict.Fields("B", "A"), depict.PreserveOrder()).
		Serialize(context.Background(), depicttest.Account{A: 1, B: "foo"})
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	data, err := New().Render(out, depict.RenderOptions{SortKeys: true})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "<root><A>1</A><B>foo</B></root>"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

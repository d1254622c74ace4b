package depict

import (
	"errors"
	"testing"
	"time"
)

func TestIsProtected(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"bool", true, true},
		{"string", "foo", true},
		{"bytes", []byte("foo"), true},
		{"int", 42, true},
		{"int64", int64(42), true},
		{"uint8", uint8(1), true},
		{"float64", 1.5, true},
		{"time", time.Now(), true},
		{"duration", time.Second, true},
		{"struct", struct{ A int }{1}, false},
		{"slice", []int{1}, false},
		{"map", map[string]int{}, false},
		{"func", func() int { return 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isProtected(tt.v); got != tt.want {
				t.Errorf("isProtected(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestIsSimpleCallable(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"zero arg one result", func() int { return 1 }, true},
		{"zero arg value and error", func() (string, error) { return "", nil }, true},
		{"takes argument", func(int) int { return 1 }, false},
		{"variadic", func(...int) int { return 1 }, false},
		{"two non-error results", func() (int, int) { return 1, 2 }, false},
		{"no results", func() {}, false},
		{"nil func", (func() int)(nil), false},
		{"not a func", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSimpleCallable(tt.v); got != tt.want {
				t.Errorf("isSimpleCallable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallSimple(t *testing.T) {
	got, err := callSimple(func() string { return "ok" })
	if err != nil {
		t.Fatalf("callSimple() error: %v", err)
	}
	if got != "ok" {
		t.Errorf("callSimple() = %v, want %q", got, "ok")
	}

	boom := errors.New("boom")
	if _, err := callSimple(func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("callSimple() error = %v, want %v", err, boom)
	}
}

func TestInvokeCallable(t *testing.T) {
	// Chained callables reduce all the way down.
	got, err := invokeCallable(func() any { return func() int { return 7 } })
	if err != nil {
		t.Fatalf("invokeCallable() error: %v", err)
	}
	if got != 7 {
		t.Errorf("invokeCallable() = %v, want 7", got)
	}

	// Non-callables pass through.
	got, err = invokeCallable("plain")
	if err != nil {
		t.Fatalf("invokeCallable() error: %v", err)
	}
	if got != "plain" {
		t.Errorf("invokeCallable() = %v, want %q", got, "plain")
	}
}

type allBooks struct{ items []any }

func (c allBooks) All() []any { return c.items }

func TestClassify(t *testing.T) {
	type composite struct{ A int }

	tests := []struct {
		name string
		v    any
		want valueKind
	}{
		{"nil", nil, kindScalar},
		{"int", 1, kindScalar},
		{"string", "s", kindScalar},
		{"nil pointer", (*composite)(nil), kindScalar},
		{"callable", func() int { return 1 }, kindCallable},
		{"collection", allBooks{}, kindCollection},
		{"slice", []int{1, 2}, kindSequence},
		{"array", [2]int{1, 2}, kindSequence},
		{"map", map[string]int{}, kindMapping},
		{"struct", composite{}, kindComposite},
		{"struct pointer", &composite{}, kindComposite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.v); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeScalar(t *testing.T) {
	var p *int
	if got := normalizeScalar(p); got != nil {
		t.Errorf("normalizeScalar(typed nil) = %v, want nil", got)
	}

	n := 42
	if got := normalizeScalar(&n); got != 42 {
		t.Errorf("normalizeScalar(*int) = %v, want 42", got)
	}

	if got := normalizeScalar("s"); got != "s" {
		t.Errorf("normalizeScalar(string) = %v, want %q", got, "s")
	}
}

func TestStringify(t *testing.T) {
	if got := stringify(time.Duration(0)); got != "0s" {
		t.Errorf("stringify(Stringer) = %q, want %q", got, "0s")
	}
	type point struct{ X, Y int }
	if got := stringify(point{1, 2}); got != "{1 2}" {
		t.Errorf("stringify(struct) = %q, want %q", got, "{1 2}")
	}
}

func TestIdentity(t *testing.T) {
	type composite struct{ A int }

	a := &composite{}
	b := &composite{}
	if identity(a) == identity(b) {
		t.Error("identity() of distinct pointers should differ")
	}
	if identity(a) != identity(a) {
		t.Error("identity() of the same pointer should be stable")
	}
	if identity(composite{}) != 0 {
		t.Error("identity() of a value type should be zero")
	}
	if identity(nil) != 0 {
		t.Error("identity(nil) should be zero")
	}
}

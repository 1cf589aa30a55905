package observability

import "testing"

func TestFields(t *testing.T) {
	f := String("k", "v")
	if f.Key() != "k" || f.Value() != "v" {
		t.Fatalf("string field: got %q=%v", f.Key(), f.Value())
	}
	if got := Int("n", 3).Value(); got != 3 {
		t.Fatalf("int field: got %v", got)
	}
	if got := Float64("x", 1.5).Value(); got != 1.5 {
		t.Fatalf("float64 field: got %v", got)
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Info("ignored", String("k", "v"))
	if _, ok := l.With(Int("n", 1)).(NopLogger); !ok {
		t.Fatalf("With should return a NopLogger")
	}
}

func TestStderrLoggerWith(t *testing.T) {
	base := NewStderrLogger()
	child := base.With(String("component", "test"))
	if child == nil {
		t.Fatalf("With returned nil")
	}
	// Bound fields must not leak back into the parent.
	if len(base.bound) != 0 {
		t.Fatalf("parent logger gained %d bound fields", len(base.bound))
	}
}

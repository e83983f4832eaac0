package lang

import (
	"slices"
	"testing"
)

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()

	if _, ok := env.Get("x"); ok {
		t.Fatal("expected fresh environment to have no bindings")
	}

	env.Set("b", 2)
	env.Set("a", 1)
	env.Set("c", 3)
	env.Set("b", 20)

	if v, ok := env.Get("b"); !ok || v != 20 {
		t.Errorf("expected b == 20, got %d (bound %v)", v, ok)
	}

	if env.Len() != 3 {
		t.Errorf("expected 3 bindings, got %d", env.Len())
	}

	if got := env.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("expected sorted names, got %v", got)
	}

	var pairs []string
	for name := range env.All() {
		pairs = append(pairs, name)
	}

	if !slices.Equal(pairs, []string{"a", "b", "c"}) {
		t.Errorf("expected ordered iteration, got %v", pairs)
	}

	if !env.Delete("a") || env.Delete("a") {
		t.Error("expected Delete to report the binding once")
	}

	env.Reset()

	if env.Len() != 0 {
		t.Errorf("expected empty environment after reset, got %v", env.Names())
	}
}

func TestEnvironment_Clone(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", 1)

	clone := env.Clone()
	clone.Set("x", 2)
	clone.Set("y", 3)

	if x, _ := env.Get("x"); x != 1 {
		t.Errorf("expected original x == 1, got %d", x)
	}

	if _, ok := env.Get("y"); ok {
		t.Error("expected clone bindings to stay out of the original")
	}

	if x, _ := clone.Get("x"); x != 2 {
		t.Errorf("expected clone x == 2, got %d", x)
	}
}

func TestEnvironment_Independent(t *testing.T) {
	a, b := NewEnvironment(), NewEnvironment()

	if _, err := Run(t.Context(), "x = 1", a); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if _, err := Run(t.Context(), "x + 1", b); err == nil {
		t.Error("expected separate environments to share no bindings")
	}
}

func TestEnvironment_ZeroValue(t *testing.T) {
	var env Environment

	if env.Len() != 0 || len(env.Names()) != 0 {
		t.Fatalf("expected empty zero value, got %v", env.Names())
	}

	if _, ok := env.Get("x"); ok {
		t.Fatal("expected zero value to have no bindings")
	}

	clone := env.Clone()
	env.Reset()

	got, err := Run(t.Context(), "x = 1", &env)
	if err != nil || got != 1 {
		t.Fatalf("expected assignment to succeed, got %d, %v", got, err)
	}

	if v, ok := env.Get("x"); !ok || v != 1 {
		t.Errorf("expected x == 1, got %d (bound %v)", v, ok)
	}

	clone.Set("y", 2)

	if _, ok := env.Get("y"); ok {
		t.Error("expected clone of zero value to be independent")
	}
}

package evaluator

import (
	"errors"
	"math/big"
	"testing"

	"galaxy/internal/object"
	"galaxy/internal/parser"
)

func mustParse(t *testing.T, env *object.Environment, code string) *object.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(env, code)
	if err != nil {
		t.Fatalf("parse %q: %v", code, err)
	}
	return expr
}

func render(t *testing.T, env *object.Environment, ev *Evaluator, code string) string {
	t.Helper()
	out, err := ev.Render(mustParse(t, env, code))
	if err != nil {
		t.Fatalf("render %q: %v", code, err)
	}
	return out
}

func TestForceIdempotent(t *testing.T) {
	ev := New()
	runs := 0
	th := object.NewThunk(func(f object.Forcer) (object.Value, error) {
		runs++
		return &object.Nil{}, nil
	})

	first, err := ev.Force(th)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ev.Force(th)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("repeated forcing returned different values")
	}
	if runs != 1 {
		t.Errorf("recipe ran %d times, want 1", runs)
	}
	if ev.Count() != 1 {
		t.Errorf("expected 1 counted eval, got %d", ev.Count())
	}
}

func TestForceSharedNodeRunsOnce(t *testing.T) {
	ev := New()
	runs := 0
	shared := object.NewThunk(func(f object.Forcer) (object.Value, error) {
		runs++
		return &object.Number{Value: big.NewInt(7)}, nil
	})

	// The same node referenced from many parent positions.
	pair := object.NewPair(shared, object.NewPair(shared, object.NewPair(shared, object.NewNil())))
	elems, err := ev.List(pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range elems {
		if _, err := ev.Force(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if runs != 1 {
		t.Errorf("shared thunk recipe ran %d times, want 1", runs)
	}
}

func TestForceBrokenNode(t *testing.T) {
	ev := New()
	if _, err := ev.Force(&object.Expr{}); !errors.Is(err, object.ErrInternalInvariant) {
		t.Errorf("expected ErrInternalInvariant, got %v", err)
	}
}

func TestPairDestructuring(t *testing.T) {
	// apply(Pair(a,b), f) hands f the components in order:
	// cons destructured by cons rebuilds the same pair.
	env := NewStdEnv()
	ev := New()
	if got := render(t, env, ev, "ap ap ap cons 1 2 cons"); got != "(1 . 2)" {
		t.Errorf("expected (1 . 2), got %s", got)
	}
}

func TestNilActsAsTrueSelector(t *testing.T) {
	env := NewStdEnv()
	ev := New()
	// nil f x y keeps x and discards y, same as t x y.
	if got := render(t, env, ev, "ap ap ap nil 99 1 2"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if got := render(t, env, ev, "ap ap t 1 2"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestLazyPairComponents(t *testing.T) {
	env := NewStdEnv()
	ev := New()
	// :fail is never defined; the untouched component must never be
	// forced.
	if got := render(t, env, ev, "ap car ap ap cons 1 :fail"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if got := render(t, env, ev, "ap cdr ap ap cons :fail 1"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestTrueSelectorSkipsDivergingArgument(t *testing.T) {
	env := NewStdEnv()
	ev := New()
	// (s i i)(s i i) loops forever if forced; t never touches it.
	if got := render(t, env, ev, "ap ap t 1 ap ap ap s i i ap ap s i i"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestInfiniteListStaysLazy(t *testing.T) {
	env := object.NewEnclosedEnvironment(NewStdEnv())
	ev := New()
	if err := parser.ParseDefs(env, ":inf = ap ap cons 1 :inf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := render(t, env, ev, "ap car :inf"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if got := render(t, env, ev, "ap car ap cdr :inf"); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestForwardReference(t *testing.T) {
	env := object.NewEnclosedEnvironment(NewStdEnv())
	ev := New()
	// :f refers to :g before :g exists; resolution happens at force
	// time, once both are defined.
	if err := parser.ParseDefs(env, ":f = ap inc :g\n:g = 41"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := render(t, env, ev, ":f"); got != "42" {
		t.Errorf("expected 42, got %s", got)
	}
}

func TestUndefinedReferenceFailsAtForceTime(t *testing.T) {
	env := object.NewEnclosedEnvironment(NewStdEnv())
	ev := New()

	expr := mustParse(t, env, "ap inc :missing")
	if _, err := ev.Force(expr); !errors.Is(err, object.ErrUndefinedReference) {
		t.Errorf("expected ErrUndefinedReference, got %v", err)
	}
}

func TestIsNil(t *testing.T) {
	env := NewStdEnv()
	ev := New()

	cases := []struct {
		name     string
		code     string
		expected bool
	}{
		{"tagged nil", "nil", true},
		{"tagged pair", "ap ap cons 1 2", false},
		{"number", "42", false},
		{"combinator nil", "ap t t", true},
		{"combinator pair", "ap ap c ap ap c i 1 2", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ev.IsNil(mustParse(t, env, c.code))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.expected {
				t.Errorf("expected %v, got %v", c.expected, got)
			}
		})
	}
}

func TestIsNilAmbiguous(t *testing.T) {
	ev := New()

	numeric := object.NewFunction3("opaque", func(_, _, _ *object.Expr) (*object.Expr, error) {
		return object.NewNumber(42), nil
	})
	if _, err := ev.IsNil(numeric); !errors.Is(err, object.ErrAmbiguousValue) {
		t.Errorf("expected ErrAmbiguousValue, got %v", err)
	}

	nonNumeric := object.NewFunction3("opaque", func(_, _, _ *object.Expr) (*object.Expr, error) {
		return object.NewNil(), nil
	})
	if _, err := ev.IsNil(nonNumeric); !errors.Is(err, object.ErrAmbiguousValue) {
		t.Errorf("expected ErrAmbiguousValue, got %v", err)
	}
}

func TestListMaterialization(t *testing.T) {
	env := NewStdEnv()
	ev := New()

	elems, err := ev.List(mustParse(t, env, "ap ap cons 1 ap ap cons 2 ap ap cons 3 nil"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	for i, want := range []string{"1", "2", "3"} {
		v, err := ev.Force(elems[i])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Inspect() != want {
			t.Errorf("element %d: expected %s, got %s", i, want, v.Inspect())
		}
	}

	if _, err := ev.List(mustParse(t, env, "ap ap cons 1 2")); !errors.Is(err, object.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch for improper list, got %v", err)
	}
}

package parser

import (
	"errors"
	"strings"
	"testing"

	"galaxy/internal/object"
)

func TestParseExprNumber(t *testing.T) {
	env := object.NewEnvironment()

	cases := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"42", "42"},
		{"-7", "-7"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			expr, err := ParseExpr(env, c.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			v, ok := expr.Value()
			if !ok {
				t.Fatalf("expected a concrete number node")
			}
			if v.Inspect() != c.expected {
				t.Errorf("expected %s, got %s", c.expected, v.Inspect())
			}
		})
	}
}

func TestParseExprApplication(t *testing.T) {
	env := object.NewEnvironment()
	if err := env.Define("k", object.True()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Applying a known function parses to a graph without evaluating
	// anything beyond the application construction itself.
	expr, err := ParseExpr(env, "ap ap k 1 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := expr.Value()
	if !ok {
		t.Fatalf("expected the selector to reduce structurally")
	}
	if v.Inspect() != "1" {
		t.Errorf("expected 1, got %s", v.Inspect())
	}
}

func TestParseExprErrors(t *testing.T) {
	env := object.NewEnvironment()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated ap", "ap ap"},
		{"trailing token", "1 2"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseExpr(env, c.input); err == nil {
				t.Errorf("expected a parse error for %q", c.input)
			}
		})
	}
}

func TestParseExprUnknownNameIsDeferred(t *testing.T) {
	env := object.NewEnvironment()

	expr, err := ParseExpr(env, ":later")
	if err != nil {
		t.Fatalf("an unknown name must parse: %v", err)
	}
	if _, ok := expr.Value(); ok {
		t.Fatalf("expected a deferred reference node")
	}
}

func TestParseDefs(t *testing.T) {
	env := object.NewEnvironment()

	code := strings.Join([]string{
		":a = 1",
		"",
		":b = ap ap cons 1 2",
	}, "\n")
	if err := env.Define("cons", object.NewFunction2("cons", func(a, b *object.Expr) (*object.Expr, error) {
		return object.NewPair(a, b), nil
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ParseDefs(env, code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := env.Lookup(":a"); !ok {
		t.Errorf(":a not defined")
	}
	if _, ok := env.Lookup(":b"); !ok {
		t.Errorf(":b not defined")
	}
}

func TestParseDefsErrors(t *testing.T) {
	env := object.NewEnvironment()

	if err := ParseDefs(env, ":a 1"); err == nil {
		t.Errorf("expected error for a line without ' = '")
	}
	if err := ParseDefs(env, ":a = 1\n:a = 2"); !errors.Is(err, object.ErrDuplicateDefinition) {
		t.Errorf("expected ErrDuplicateDefinition, got %v", err)
	}
}

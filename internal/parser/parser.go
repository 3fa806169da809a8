// Package parser reads the space-delimited prefix notation the
// combinator language is shipped in: `ap` applies the next two
// expressions, an integer literal is a number, and anything else is a
// name resolved against the environment.
package parser

import (
	"fmt"
	"math/big"
	"strings"

	"galaxy/internal/object"
)

// ParseExpr reads exactly one expression from code. Leftover tokens
// are a malformed program.
func ParseExpr(env *object.Environment, code string) (*object.Expr, error) {
	expr, rest, err := parse(env, strings.Fields(code))
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("excessive token %q", rest[0])
	}
	return expr, nil
}

func parse(env *object.Environment, tokens []string) (*object.Expr, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("unexpected end of input")
	}
	tok, rest := tokens[0], tokens[1:]

	if tok == "ap" {
		lhs, rest, err := parse(env, rest)
		if err != nil {
			return nil, nil, err
		}
		rhs, rest, err := parse(env, rest)
		if err != nil {
			return nil, nil, err
		}
		expr, err := object.Apply(lhs, rhs)
		if err != nil {
			return nil, nil, err
		}
		return expr, rest, nil
	}

	if n, ok := new(big.Int).SetString(tok, 10); ok {
		return object.NewBigNumber(n), rest, nil
	}

	// Names resolve late: a reference to a not-yet-defined name parses
	// fine and only fails if it is still unbound when forced. That is
	// what lets mutually recursive definitions in one batch link up.
	return env.Reference(tok), rest, nil
}

// ParseDefs loads a protocol file: one `name = expression` definition
// per line, blank lines skipped. Definitions may reference names
// defined further down.
func ParseDefs(env *object.Environment, code string) error {
	for i, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, body, found := strings.Cut(line, " = ")
		if !found {
			return fmt.Errorf("line %d: malformed definition", i+1)
		}
		expr, err := ParseExpr(env, body)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := env.Define(strings.TrimSpace(name), expr); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

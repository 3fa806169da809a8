package evaluator

import (
	"fmt"
	"math/big"

	"galaxy/internal/object"
)

// NewStdEnv builds the library root: the named builtins every loaded
// protocol resolves against. Each builtin is a thin wrapper that
// forces its operands and produces a new value; program definitions go
// into a child environment so they can never collide with these names.
func NewStdEnv() *object.Environment {
	env := object.NewEnvironment()
	defs := []struct {
		name string
		expr *object.Expr
	}{
		{"inc", object.NewFunction("inc", func(a *object.Expr) (*object.Expr, error) {
			return numThunk("inc", a, func(x *big.Int) *big.Int {
				return new(big.Int).Add(x, big.NewInt(1))
			}), nil
		})},
		{"dec", object.NewFunction("dec", func(a *object.Expr) (*object.Expr, error) {
			return numThunk("dec", a, func(x *big.Int) *big.Int {
				return new(big.Int).Sub(x, big.NewInt(1))
			}), nil
		})},
		{"neg", object.NewFunction("neg", func(a *object.Expr) (*object.Expr, error) {
			return numThunk("neg", a, func(x *big.Int) *big.Int {
				return new(big.Int).Neg(x)
			}), nil
		})},
		{"add", object.NewFunction2("add", func(a, b *object.Expr) (*object.Expr, error) {
			return numThunk2("add", a, b, func(x, y *big.Int) *big.Int {
				return new(big.Int).Add(x, y)
			}), nil
		})},
		{"mul", object.NewFunction2("mul", func(a, b *object.Expr) (*object.Expr, error) {
			return numThunk2("mul", a, b, func(x, y *big.Int) *big.Int {
				return new(big.Int).Mul(x, y)
			}), nil
		})},
		// Quo truncates toward zero, which is the division the
		// language defines.
		{"div", object.NewFunction2("div", func(a, b *object.Expr) (*object.Expr, error) {
			return numThunk2("div", a, b, func(x, y *big.Int) *big.Int {
				return new(big.Int).Quo(x, y)
			}), nil
		})},
		{"eq", object.NewFunction2("eq", func(a, b *object.Expr) (*object.Expr, error) {
			return boolThunk("eq", a, b, func(x, y *big.Int) bool {
				return x.Cmp(y) == 0
			}), nil
		})},
		{"lt", object.NewFunction2("lt", func(a, b *object.Expr) (*object.Expr, error) {
			return boolThunk("lt", a, b, func(x, y *big.Int) bool {
				return x.Cmp(y) < 0
			}), nil
		})},
		{"s", object.NewFunction3("s", func(a, b, c *object.Expr) (*object.Expr, error) {
			return object.NewThunk(func(f object.Forcer) (object.Value, error) {
				ac, err := object.Apply(a, c)
				if err != nil {
					return nil, err
				}
				bc, err := object.Apply(b, c)
				if err != nil {
					return nil, err
				}
				applied, err := object.Apply(ac, bc)
				if err != nil {
					return nil, err
				}
				return f.Force(applied)
			}), nil
		})},
		{"c", object.NewFunction3("c", func(a, b, c *object.Expr) (*object.Expr, error) {
			ac, err := object.Apply(a, c)
			if err != nil {
				return nil, err
			}
			return object.Apply(ac, b)
		})},
		{"b", object.NewFunction3("b", func(a, b, c *object.Expr) (*object.Expr, error) {
			bc, err := object.Apply(b, c)
			if err != nil {
				return nil, err
			}
			return object.Apply(a, bc)
		})},
		{"t", object.True()},
		{"f", object.False()},
		{"i", object.NewFunction("i", func(a *object.Expr) (*object.Expr, error) {
			return a, nil
		})},
		{"cons", object.NewFunction2("cons", func(a, b *object.Expr) (*object.Expr, error) {
			return object.NewPair(a, b), nil
		})},
		{"car", object.NewFunction("car", func(a *object.Expr) (*object.Expr, error) {
			return a.Car()
		})},
		{"cdr", object.NewFunction("cdr", func(a *object.Expr) (*object.Expr, error) {
			return a.Cdr()
		})},
		{"nil", object.NewNil()},
		{"isnil", object.NewFunction("isnil", func(a *object.Expr) (*object.Expr, error) {
			return object.NewThunk(func(f object.Forcer) (object.Value, error) {
				isnil, err := isNil(f, a)
				if err != nil {
					return nil, err
				}
				return object.BoolValue(isnil), nil
			}), nil
		})},
	}
	for _, d := range defs {
		if err := env.Define(d.name, d.expr); err != nil {
			// The table above is the only writer; a collision here is
			// a build defect, not a runtime condition.
			panic(err)
		}
	}
	return env
}

func forceNumber(f object.Forcer, e *object.Expr, op string) (*big.Int, error) {
	v, err := f.Force(e)
	if err != nil {
		return nil, err
	}
	num, ok := v.(*object.Number)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a number, got %s", object.ErrTypeMismatch, op, v.Type())
	}
	return num.Value, nil
}

func numThunk(op string, a *object.Expr, fn func(x *big.Int) *big.Int) *object.Expr {
	return object.NewThunk(func(f object.Forcer) (object.Value, error) {
		x, err := forceNumber(f, a, op)
		if err != nil {
			return nil, err
		}
		return &object.Number{Value: fn(x)}, nil
	})
}

func numThunk2(op string, a, b *object.Expr, fn func(x, y *big.Int) *big.Int) *object.Expr {
	return object.NewThunk(func(f object.Forcer) (object.Value, error) {
		x, err := forceNumber(f, a, op)
		if err != nil {
			return nil, err
		}
		y, err := forceNumber(f, b, op)
		if err != nil {
			return nil, err
		}
		return &object.Number{Value: fn(x, y)}, nil
	})
}

func boolThunk(op string, a, b *object.Expr, fn func(x, y *big.Int) bool) *object.Expr {
	return object.NewThunk(func(f object.Forcer) (object.Value, error) {
		x, err := forceNumber(f, a, op)
		if err != nil {
			return nil, err
		}
		y, err := forceNumber(f, b, op)
		if err != nil {
			return nil, err
		}
		return object.BoolValue(fn(x, y)), nil
	})
}

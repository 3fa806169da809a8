package object

import (
	"fmt"
	"math/big"
)

const (
	NUMBER_OBJ   = "NUMBER"
	FUNCTION_OBJ = "FUNCTION"
	NIL_OBJ      = "NIL"
	PAIR_OBJ     = "PAIR"
)

// NIL is the interned nil singleton; every nil in a value graph is this
// instance, so tag comparison against it is value equality.
var NIL = &Nil{}

type ValueType string

// Value is one of the four concrete shapes an expression can force to.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Forcer resolves an expression to its concrete value. It is the bridge
// that lets thunk recipes and builtin functions force sub-expressions
// without depending on the evaluator package.
type Forcer interface {
	Force(e *Expr) (Value, error)
}

// Recipe is a deferred computation producing a value. It runs at most
// once per thunk node.
type Recipe func(f Forcer) (Value, error)

type Number struct {
	Value *big.Int
}

func (n *Number) Type() ValueType { return NUMBER_OBJ }
func (n *Number) Inspect() string { return n.Value.String() }

// Function is an opaque callable: one expression in, one expression
// out, with no forcing of its own argument. Name is carried only for
// diagnostics.
type Function struct {
	Name string
	Fn   func(arg *Expr) (*Expr, error)
}

func (f *Function) Type() ValueType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

type Nil struct{}

func (n *Nil) Type() ValueType { return NIL_OBJ }
func (n *Nil) Inspect() string { return "nil" }

// Pair holds its components unforced. Either field may be shared by
// multiple graph parents or participate in a cycle through recursive
// bindings.
type Pair struct {
	First  *Expr
	Second *Expr
}

func (p *Pair) Type() ValueType { return PAIR_OBJ }
func (p *Pair) Inspect() string {
	return "(" + p.First.Inspect() + " . " + p.Second.Inspect() + ")"
}

// Expr is a node in the expression graph: either a concrete value, or a
// thunk holding a recipe and, once forced, a cached value. The
// recipe-to-cache transition happens at most once and is irreversible.
type Expr struct {
	value  Value
	recipe Recipe
}

func NewValue(v Value) *Expr { return &Expr{value: v} }

func NewThunk(r Recipe) *Expr { return &Expr{recipe: r} }

func NewNumber(n int64) *Expr { return NewValue(&Number{Value: big.NewInt(n)}) }

func NewBigNumber(n *big.Int) *Expr { return NewValue(&Number{Value: n}) }

func NewNil() *Expr { return NewValue(NIL) }

func NewPair(first, second *Expr) *Expr {
	return NewValue(&Pair{First: first, Second: second})
}

func NewFunction(name string, fn func(arg *Expr) (*Expr, error)) *Expr {
	return NewValue(&Function{Name: name, Fn: fn})
}

// NewFunction2 curries a two-argument host function into the
// one-argument model.
func NewFunction2(name string, fn func(a, b *Expr) (*Expr, error)) *Expr {
	return NewFunction(name, func(a *Expr) (*Expr, error) {
		return NewFunction(name, func(b *Expr) (*Expr, error) {
			return fn(a, b)
		}), nil
	})
}

func NewFunction3(name string, fn func(a, b, c *Expr) (*Expr, error)) *Expr {
	return NewFunction(name, func(a *Expr) (*Expr, error) {
		return NewFunction2(name, func(b, c *Expr) (*Expr, error) {
			return fn(a, b, c)
		}), nil
	})
}

// True returns the two-argument selector keeping its first argument.
// Booleans are ordinary functions; there is no boolean tag anywhere in
// the model.
func True() *Expr {
	return NewFunction2("t", func(a, _ *Expr) (*Expr, error) { return a, nil })
}

// False returns the two-argument selector keeping its second argument.
func False() *Expr {
	return NewFunction2("f", func(_, b *Expr) (*Expr, error) { return b, nil })
}

func NewBool(b bool) *Expr {
	if b {
		return True()
	}
	return False()
}

// BoolValue is the selector function itself, for recipes that must
// yield a Value rather than a graph node.
func BoolValue(b bool) Value {
	v, _ := NewBool(b).Value()
	return v
}

// Value returns the concrete value when the node already has one,
// without forcing.
func (e *Expr) Value() (Value, bool) {
	if e.value != nil {
		return e.value, true
	}
	return nil, false
}

// Resolve hands the node's state to the forcing engine: the concrete
// value when present, otherwise the recipe. Fulfill commits the result.
func (e *Expr) Resolve() (Value, Recipe) { return e.value, e.recipe }

// Fulfill caches the forced value and drops the recipe so its captured
// expressions become eligible for release.
func (e *Expr) Fulfill(v Value) {
	e.value = v
	e.recipe = nil
}

func (e *Expr) Inspect() string {
	if e.value != nil {
		return e.value.Inspect()
	}
	return "<thunk>"
}

// Apply builds the application of rhs to lhs. lhs dispatches by shape
// when it is already concrete; rhs is never forced here — laziness of
// the argument is load-bearing for the whole language.
func Apply(lhs, rhs *Expr) (*Expr, error) {
	if v, ok := lhs.Value(); ok {
		return applyValue(v, rhs)
	}
	return NewThunk(func(f Forcer) (Value, error) {
		v, err := f.Force(lhs)
		if err != nil {
			return nil, err
		}
		applied, err := applyValue(v, rhs)
		if err != nil {
			return nil, err
		}
		return f.Force(applied)
	}), nil
}

func applyValue(v Value, arg *Expr) (*Expr, error) {
	switch v := v.(type) {
	case *Number:
		return nil, fmt.Errorf("%w: %s is not callable", ErrNotApplicable, v.Inspect())
	case *Nil:
		// nil applied to anything selects true: this is the Church
		// encoding that makes nil probe-able as a boolean constant.
		return True(), nil
	case *Pair:
		first, err := Apply(arg, v.First)
		if err != nil {
			return nil, err
		}
		return Apply(first, v.Second)
	case *Function:
		return v.Fn(arg)
	}
	return nil, fmt.Errorf("%w: cannot apply %s", ErrNotApplicable, v.Type())
}

// Car projects the first component. Concrete pairs answer directly;
// anything unforced defers behind a thunk.
func (e *Expr) Car() (*Expr, error) {
	if v, ok := e.Value(); ok {
		return pairFirst(v)
	}
	cons := e
	return NewThunk(func(f Forcer) (Value, error) {
		v, err := f.Force(cons)
		if err != nil {
			return nil, err
		}
		first, err := pairFirst(v)
		if err != nil {
			return nil, err
		}
		return f.Force(first)
	}), nil
}

// Cdr projects the second component, deferring like Car.
func (e *Expr) Cdr() (*Expr, error) {
	if v, ok := e.Value(); ok {
		return pairSecond(v)
	}
	cons := e
	return NewThunk(func(f Forcer) (Value, error) {
		v, err := f.Force(cons)
		if err != nil {
			return nil, err
		}
		second, err := pairSecond(v)
		if err != nil {
			return nil, err
		}
		return f.Force(second)
	}), nil
}

func pairFirst(v Value) (*Expr, error) {
	if p, ok := v.(*Pair); ok {
		return p.First, nil
	}
	return nil, fmt.Errorf("%w: car expects a pair, got %s", ErrTypeMismatch, v.Type())
}

func pairSecond(v Value) (*Expr, error) {
	if p, ok := v.(*Pair); ok {
		return p.Second, nil
	}
	return nil, fmt.Errorf("%w: cdr expects a pair, got %s", ErrTypeMismatch, v.Type())
}

package evaluator

import (
	"fmt"
	"log/slog"
	"math/big"

	"galaxy/internal/object"
)

// Reserved probe sentinels. They never appear in evaluated programs;
// they only tag which branch a behavioral nil/pair probe took.
var (
	sentinelNilLike  = big.NewInt(1)
	sentinelPairLike = big.NewInt(0)
)

// Evaluator owns the forcing state for one evaluation run. The counter
// is instrumentation only: it counts distinct thunk forces and plays no
// part in program semantics. It lives here rather than in a package
// global so independent evaluations do not interfere.
type Evaluator struct {
	count int64
}

func New() *Evaluator {
	return &Evaluator{}
}

// Count reports how many thunk recipes have run so far.
func (ev *Evaluator) Count() int64 { return ev.count }

// Force resolves an expression to its concrete value. A node that
// already holds a value is returned as-is; a forced thunk answers from
// its cache in O(1); an unforced thunk runs its recipe exactly once,
// no matter how many graph parents point at it. That at-most-once
// guarantee is the performance property the whole evaluator rests on.
func (ev *Evaluator) Force(e *object.Expr) (object.Value, error) {
	v, recipe := e.Resolve()
	if v != nil {
		return v, nil
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: thunk has neither recipe nor cached value", object.ErrInternalInvariant)
	}
	v, err := recipe(ev)
	if err != nil {
		return nil, err
	}
	ev.count++
	e.Fulfill(v)
	return v, nil
}

// IsNil decides whether e behaves as nil. Values the evaluator built
// itself carry a tag and answer directly. An opaque function could be
// either a combinator-built nil or a combinator-built pair, so it is
// probed through the language's own protocol: applied as if it were a
// pair to a function that ignores both components and answers the
// false selector, then driven through boolean selection onto one of
// the two reserved sentinels. Nil lands on the first sentinel, a pair
// on the second; anything else is a defect in the evaluated program.
func (ev *Evaluator) IsNil(e *object.Expr) (bool, error) {
	return isNil(ev, e)
}

func isNil(f object.Forcer, e *object.Expr) (bool, error) {
	v, err := f.Force(e)
	if err != nil {
		return false, err
	}
	switch v.(type) {
	case *object.Nil:
		return true, nil
	case *object.Pair:
		return false, nil
	case *object.Number:
		return false, nil
	}

	probe := object.NewFunction2("isnil-probe", func(_, _ *object.Expr) (*object.Expr, error) {
		return object.False(), nil
	})
	selector, err := object.Apply(e, probe)
	if err != nil {
		return false, err
	}
	onNil, err := object.Apply(selector, object.NewBigNumber(sentinelNilLike))
	if err != nil {
		return false, err
	}
	outcome, err := object.Apply(onNil, object.NewBigNumber(sentinelPairLike))
	if err != nil {
		return false, err
	}
	result, err := f.Force(outcome)
	if err != nil {
		return false, err
	}

	num, ok := result.(*object.Number)
	if !ok {
		return false, fmt.Errorf("%w: nil probe forced to %s, want a sentinel number", object.ErrAmbiguousValue, result.Type())
	}
	switch {
	case num.Value.Cmp(sentinelNilLike) == 0:
		return true, nil
	case num.Value.Cmp(sentinelPairLike) == 0:
		return false, nil
	}
	slog.Debug("nil probe missed both sentinels", slog.String("result", num.Inspect()))
	return false, fmt.Errorf("%w: nil probe produced %s", object.ErrAmbiguousValue, num.Inspect())
}

// first and rest project the components of a value known to behave as
// a pair. Tagged pairs answer directly; pair-like functions are
// destructured by applying them to a selector, which is how the
// language itself takes pairs apart.
func first(v object.Value, e *object.Expr) (*object.Expr, error) {
	if p, ok := v.(*object.Pair); ok {
		return p.First, nil
	}
	return object.Apply(e, object.True())
}

func rest(v object.Value, e *object.Expr) (*object.Expr, error) {
	if p, ok := v.(*object.Pair); ok {
		return p.Second, nil
	}
	return object.Apply(e, object.False())
}

// List materializes a nil-terminated spine into a slice of unforced
// element expressions. The walk is an explicit loop: list length must
// not translate into call-stack depth.
func (ev *Evaluator) List(e *object.Expr) ([]*object.Expr, error) {
	cur := e
	var elems []*object.Expr
	for {
		v, err := ev.Force(cur)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(*object.Number); ok {
			return nil, fmt.Errorf("%w: number %s terminates the spine, not a proper list", object.ErrTypeMismatch, v.Inspect())
		}
		done, err := ev.IsNil(cur)
		if err != nil {
			return nil, err
		}
		if done {
			return elems, nil
		}
		head, err := first(v, cur)
		if err != nil {
			return nil, err
		}
		elems = append(elems, head)
		cur, err = rest(v, cur)
		if err != nil {
			return nil, err
		}
	}
}

package object

import (
	"fmt"
	"log/slog"
	"sync"
)

// Environment is an insertion-ordered name to expression mapping with
// an optional outer chain. Environments are populated during a
// definition phase and read-only afterwards; every expression built
// under one shares it.
type Environment struct {
	bindings map[string]*Expr
	names    []string
	Outer    *Environment

	mu sync.RWMutex
}

func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]*Expr)}
}

// NewEnclosedEnvironment initializes an environment whose lookups fall
// through to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Define binds name in this scope. Redefining a name already present in
// the same scope is a caller error; shadowing an outer definition is
// fine.
func (e *Environment) Define(name string, expr *Expr) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.bindings[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, name)
	}
	e.bindings[name] = expr
	e.names = append(e.names, name)

	slog.Debug("binding defined", slog.String("name", name))
	return nil
}

// Lookup walks this environment then its outer chain.
func (e *Environment) Lookup(name string) (*Expr, bool) {
	e.mu.RLock()
	expr, ok := e.bindings[name]
	e.mu.RUnlock()

	if ok {
		return expr, true
	}
	if e.Outer != nil {
		return e.Outer.Lookup(name)
	}
	return nil, false
}

// Names returns the locally defined names in definition order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Len reports the number of local bindings.
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.bindings)
}

// Reference resolves name now when it is already bound, and otherwise
// defers resolution into a thunk that retries at force time. Failure is
// deliberately pushed past graph construction: a batch of definitions
// may reference names defined later in the same batch, and those
// resolve correctly once actually needed.
func (e *Environment) Reference(name string) *Expr {
	if expr, ok := e.Lookup(name); ok {
		return expr
	}
	return NewThunk(func(f Forcer) (Value, error) {
		expr, ok := e.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedReference, name)
		}
		return f.Force(expr)
	})
}

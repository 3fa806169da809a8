package object

import "errors"

// Every failure the core can produce is a program or construction
// defect: none are recoverable at the point of detection and none are
// retried. Callers match with errors.Is.
var (
	// ErrNotApplicable: an argument was applied to a number.
	ErrNotApplicable = errors.New("not applicable")

	// ErrUndefinedReference: a name failed to resolve at the moment it
	// was actually needed (not at graph-construction time).
	ErrUndefinedReference = errors.New("undefined reference")

	// ErrDuplicateDefinition: a name redefined within one environment
	// scope. Shadowing an outer scope is allowed; this is not.
	ErrDuplicateDefinition = errors.New("duplicate definition")

	// ErrInternalInvariant: a thunk was forced with neither recipe nor
	// cache. Unreachable through the public constructors.
	ErrInternalInvariant = errors.New("internal invariant violation")

	// ErrAmbiguousValue: behavioral nil/pair probing produced neither
	// sentinel. The evaluated program is at fault, not the evaluator.
	ErrAmbiguousValue = errors.New("ambiguous value")

	// ErrTypeMismatch: a builtin received an operand of the wrong
	// shape, e.g. arithmetic on a non-number.
	ErrTypeMismatch = errors.New("type mismatch")
)

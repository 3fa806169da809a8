package object

import (
	"math/big"
	"strings"
)

const (
	STATIC_NUMBER_OBJ = "STATIC_NUMBER"
	STATIC_LIST_OBJ   = "STATIC_LIST"
	STATIC_PAIR_OBJ   = "STATIC_PAIR"
)

// StaticData is the canonical tree derived from a fully forced value:
// a finite shape of numbers, lists, and pairs that can be printed and
// compared without touching the evaluator again. It is output-only and
// never fed back into evaluation.
type StaticData interface {
	Type() ValueType
	Inspect() string
}

type StaticNumber struct {
	Value *big.Int
}

func (s *StaticNumber) Type() ValueType { return STATIC_NUMBER_OBJ }
func (s *StaticNumber) Inspect() string { return s.Value.String() }

// StaticList is a nil-terminated spine rebuilt as a flat list.
type StaticList struct {
	Elements []StaticData
}

func (s *StaticList) Type() ValueType { return STATIC_LIST_OBJ }
func (s *StaticList) Inspect() string {
	elements := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		elements[i] = e.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// StaticPair is one step of a number-terminated (improper) spine.
type StaticPair struct {
	First  StaticData
	Second StaticData
}

func (s *StaticPair) Type() ValueType { return STATIC_PAIR_OBJ }
func (s *StaticPair) Inspect() string {
	return "(" + s.First.Inspect() + " . " + s.Second.Inspect() + ")"
}

// StaticEqual reports deep structural equality of two canonical trees.
func StaticEqual(a, b StaticData) bool {
	switch a := a.(type) {
	case *StaticNumber:
		bn, ok := b.(*StaticNumber)
		return ok && a.Value.Cmp(bn.Value) == 0
	case *StaticList:
		bl, ok := b.(*StaticList)
		if !ok || len(a.Elements) != len(bl.Elements) {
			return false
		}
		for i := range a.Elements {
			if !StaticEqual(a.Elements[i], bl.Elements[i]) {
				return false
			}
		}
		return true
	case *StaticPair:
		bp, ok := b.(*StaticPair)
		return ok && StaticEqual(a.First, bp.First) && StaticEqual(a.Second, bp.Second)
	}
	return false
}

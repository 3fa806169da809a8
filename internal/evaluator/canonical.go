package evaluator

import (
	"galaxy/internal/object"
)

// Canonicalize reduces a fully forceable expression to its canonical
// tree of numbers, lists, and pairs. The spine walk is iterative so a
// long list costs loop steps, not stack frames; only nesting into a
// pair's first component recurses. It terminates only for finite
// acyclic spines — an infinite list is a legitimate non-terminating
// input here, same as everywhere else in the evaluator.
//
// Both spine terminators the language uses are supported: nil closes a
// proper list, while a number terminator folds the accumulated
// elements back into a right-nested pair chain.
func (ev *Evaluator) Canonicalize(e *object.Expr) (object.StaticData, error) {
	cur := e
	var elems []object.StaticData
	for {
		v, err := ev.Force(cur)
		if err != nil {
			return nil, err
		}

		if num, ok := v.(*object.Number); ok {
			data := object.StaticData(&object.StaticNumber{Value: num.Value})
			for i := len(elems) - 1; i >= 0; i-- {
				data = &object.StaticPair{First: elems[i], Second: data}
			}
			return data, nil
		}

		done, err := ev.IsNil(cur)
		if err != nil {
			return nil, err
		}
		if done {
			return &object.StaticList{Elements: elems}, nil
		}

		head, err := first(v, cur)
		if err != nil {
			return nil, err
		}
		elem, err := ev.Canonicalize(head)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		cur, err = rest(v, cur)
		if err != nil {
			return nil, err
		}
	}
}

// Render forces an expression all the way down and prints its
// canonical form.
func (ev *Evaluator) Render(e *object.Expr) (string, error) {
	data, err := ev.Canonicalize(e)
	if err != nil {
		return "", err
	}
	return data.Inspect(), nil
}

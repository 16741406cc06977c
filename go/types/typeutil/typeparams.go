package typeutil

import (
	"go/types"

	"golang.org/x/exp/typeparams"
)

// IntegerTerms returns the basic integer types that a value of type t may have. For a type parameter, these are the
// underlying types of the terms of its constraint. It returns nil if t may be of a type that isn't an integer, which
// includes type parameters with unrestricted type sets.
func IntegerTerms(t types.Type) []*types.Basic {
	if tp, ok := t.(*typeparams.TypeParam); ok {
		terms, err := typeparams.NormalTerms(tp)
		if err != nil || len(terms) == 0 {
			return nil
		}
		out := make([]*types.Basic, 0, len(terms))
		for _, term := range terms {
			basic, ok := term.Type().Underlying().(*types.Basic)
			if !ok || basic.Info()&types.IsInteger == 0 {
				return nil
			}
			out = append(out, basic)
		}
		return out
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 {
		return nil
	}
	return []*types.Basic{basic}
}

// All reports whether fn returns true for all terms. It returns false for an empty list of terms.
func All(terms []*types.Basic, fn func(*types.Basic) bool) bool {
	if len(terms) == 0 {
		return false
	}
	for _, term := range terms {
		if !fn(term) {
			return false
		}
	}
	return true
}

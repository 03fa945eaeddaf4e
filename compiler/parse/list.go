package parse

import (
	"github.com/iku-lang/iku/compiler/lexer"
)

// elems parses a comma separated element list after its opening paren,
// stopping before the closing paren, which the caller consumes. A trailing
// comma is allowed for any number of elements.
//
// grouped reports the single-element-no-trailing-comma case. In expression
// position that form is a grouping and not a 1-tuple; in type position it is
// rejected by the caller. Only the explicit `(x,)` form makes a 1-tuple.
//
// A generic func instead of a State method, methods cannot have type
// parameters.
func elems[T any](s *State, st int, el func(int) (T, int, error)) (l []T, grouped bool, i int, err error) {
	i = st
	trail := false

	for s.tok(i).Kind != lexer.RParen {
		var x T

		x, i, err = el(i)
		if err != nil {
			return l, false, i, err
		}

		l = append(l, x)
		trail = false

		if s.tok(i).Kind != lexer.Comma {
			break
		}

		i++
		trail = true
	}

	if tk := s.tok(i); tk.Kind != lexer.RParen {
		return l, false, i, NewUnexpected(tk, lexer.Comma, lexer.RParen)
	}

	return l, len(l) == 1 && !trail, i, nil
}

// Package parse turns a token stream into an abstract syntax tree.
//
// Every production is a method taking a token index and returning the
// parsed node, the index past it, and an error. Errors abort the parse
// immediately: there is no recovery and no partial tree.
package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/iku-lang/iku/compiler/ast"
	"github.com/iku-lang/iku/compiler/lexer"
)

type (
	State struct {
		toks []lexer.Token

		tr tlog.Span
	}

	UnexpectedError struct {
		Token lexer.Token
		Want  []lexer.Kind
	}
)

// Parse consumes the whole token stream and returns the root of the tree.
func Parse(ctx context.Context, toks []lexer.Token) (*ast.File, error) {
	return New(toks).Parse(ctx)
}

func New(toks []lexer.Token) *State {
	if len(toks) == 0 {
		toks = []lexer.Token{{Kind: lexer.EOF}}
	}

	return &State{toks: toks}
}

func (s *State) Parse(ctx context.Context) (f *ast.File, err error) {
	s.tr = tlog.SpanFromContext(ctx)

	f = &ast.File{}
	i := 0

	for s.tok(i).Kind == lexer.Func {
		var fn *ast.Func

		fn, i, err = s.parseFunc(ctx, i)
		if err != nil {
			return nil, errors.Wrap(err, "func %d", len(f.Funcs))
		}

		f.Funcs = append(f.Funcs, fn)

		if s.tok(i).Kind == lexer.Semi {
			i++
		}
	}

	if tk := s.tok(i); tk.Kind != lexer.EOF {
		return nil, NewUnexpected(tk, lexer.Func, lexer.EOF)
	}

	f.End = s.tok(i).End

	s.tr.Printw("parsed file", "funcs", len(f.Funcs))

	return f, nil
}

// tok returns the token at i, or the final EOF token past the end.
func (s *State) tok(i int) lexer.Token {
	if i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}

	return s.toks[i]
}

// expect consumes one token of the given kind.
func (s *State) expect(st int, k lexer.Kind) (tk lexer.Token, i int, err error) {
	tk = s.tok(st)
	if tk.Kind != k {
		return tk, st, NewUnexpected(tk, k)
	}

	return tk, st + 1, nil
}

func (s *State) trace(i int, rule string) {
	if !s.tr.If("tokens") {
		return
	}

	s.tr.Printw("parse", "rule", rule, "i", i, "tk", s.tok(i).Kind, "from", loc.Callers(1, 3))
}

func NewUnexpected(got lexer.Token, want ...lexer.Kind) error {
	return UnexpectedError{
		Token: got,
		Want:  want,
	}
}

func (e UnexpectedError) Error() string {
	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = e.Want[i].String()
	}

	return fmt.Sprintf("unexpected token %v at pos 0x%x, want %v", e.Token.Kind, e.Token.Pos, strings.Join(l, ", "))
}

package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/iku-lang/iku/compiler/ast"
	"github.com/iku-lang/iku/compiler/lexer"
)

func (s *State) parseFunc(ctx context.Context, st int) (fn *ast.Func, i int, err error) {
	s.trace(st, "func")

	_, i, err = s.expect(st, lexer.Func)
	if err != nil {
		return nil, i, err
	}

	name, i, err := s.expect(i, lexer.Name)
	if err != nil {
		return nil, i, errors.Wrap(err, "name")
	}

	_, i, err = s.expect(i, lexer.LParen)
	if err != nil {
		return nil, i, err
	}

	args, _, i, err := elems(s, i, func(i int) (ast.Arg, int, error) {
		return s.parseArg(ctx, i)
	})
	if err != nil {
		return nil, i, errors.Wrap(err, "args")
	}

	_, i, err = s.expect(i, lexer.RParen)
	if err != nil {
		return nil, i, err
	}

	var ret ast.TypeName
	if k := s.tok(i).Kind; k == lexer.TypeIdent || k == lexer.LParen {
		ret, i, err = s.parseTypeName(ctx, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "return type")
		}
	}

	body, i, err := s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "body")
	}

	fn = &ast.Func{
		Base: ast.Base{Pos: s.tok(st).Pos, End: body.End},
		Name: name.Str,
		Args: args,
		Ret:  ret,
		Body: body.Exprs,
	}

	s.tr.Printw("func", "name", fn.Name, "args", len(fn.Args), "body", len(fn.Body))

	return fn, i, nil
}

func (s *State) parseArg(ctx context.Context, st int) (a ast.Arg, i int, err error) {
	name, i, err := s.expect(st, lexer.Name)
	if err != nil {
		return a, i, err
	}

	typ, i, err := s.parseTypeName(ctx, i)
	if err != nil {
		return a, i, err
	}

	return ast.Arg{Name: name.Str, Type: typ}, i, nil
}

// parseTypeName parses a bare type identifier or a tuple of type names.
// Unlike expressions there is no grouping form: `(T)` is an error, a
// 1-tuple type is spelled `(T,)`.
func (s *State) parseTypeName(ctx context.Context, st int) (x ast.TypeName, i int, err error) {
	s.trace(st, "type")

	switch tk := s.tok(st); tk.Kind {
	case lexer.TypeIdent:
		return ast.Type{
			Base: ast.Base{Pos: tk.Pos, End: tk.End},
			Name: tk.Str,
		}, st + 1, nil
	case lexer.LParen:
		items, grouped, i, err := elems(s, st+1, func(i int) (ast.TypeName, int, error) {
			return s.parseTypeName(ctx, i)
		})
		if err != nil {
			return nil, i, err
		}

		if grouped {
			return nil, i, NewUnexpected(s.tok(i), lexer.Comma)
		}

		return ast.TupleType{
			Base:  ast.Base{Pos: tk.Pos, End: s.tok(i).End},
			Items: items,
		}, i + 1, nil
	default:
		return nil, st, NewUnexpected(tk, lexer.TypeIdent, lexer.LParen)
	}
}

// parseBlock parses `{` (Expr `;`)* Expr? `}`. The stored sequence is
// exactly the parsed one; whether the last entry was the unterminated tail
// is for downstream stages to decide.
func (s *State) parseBlock(ctx context.Context, st int) (x ast.Block, i int, err error) {
	s.trace(st, "block")

	_, i, err = s.expect(st, lexer.LBrace)
	if err != nil {
		return x, i, err
	}

	for s.tok(i).Kind != lexer.RBrace {
		var e ast.Expr

		e, i, err = s.parseExpr(ctx, i)
		if err != nil {
			return x, i, err
		}

		x.Exprs = append(x.Exprs, e)

		if s.tok(i).Kind != lexer.Semi {
			break
		}

		i++
	}

	_, i, err = s.expect(i, lexer.RBrace)
	if err != nil {
		return x, i, err
	}

	x.Pos = s.tok(st).Pos
	x.End = s.tok(i - 1).End

	return x, i, nil
}

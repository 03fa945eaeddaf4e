package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/iku-lang/iku/compiler/ast"
	"github.com/iku-lang/iku/compiler/lexer"
)

// Expressions are parsed by a fixed precedence cascade, loosest binding
// first. A level recurses into itself only on the side its associativity
// allows and delegates to the next tighter level otherwise.
//
//	declare, assign
//	||                  right assoc
//	&&                  right assoc
//	== !=               non assoc, chains are rejected
//	<= < >= >           non assoc
//	+ -                 left assoc
//	* / %               left assoc
//	prefix !
//	atoms

func (s *State) parseExpr(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	s.trace(st, "expr")

	// Only a bare name can stand left of := or =.
	if tk := s.tok(st); tk.Kind == lexer.Name {
		switch s.tok(st + 1).Kind {
		case lexer.Define:
			v, i, err := s.parseOr(ctx, st+2)
			if err != nil {
				return nil, i, errors.Wrap(err, "declare %v", tk.Str)
			}

			return ast.Declare{Base: spanTo(tk.Pos, v), Name: tk.Str, Value: v}, i, nil
		case lexer.Assign:
			v, i, err := s.parseOr(ctx, st+2)
			if err != nil {
				return nil, i, errors.Wrap(err, "assign %v", tk.Str)
			}

			return ast.Assign{Base: spanTo(tk.Pos, v), Name: tk.Str, Value: v}, i, nil
		}
	}

	return s.parseOr(ctx, st)
}

func (s *State) parseOr(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseAnd(ctx, st)
	if err != nil {
		return nil, i, err
	}

	if s.tok(i).Kind != lexer.Or {
		return l, i, nil
	}

	r, i, err := s.parseOr(ctx, i+1)
	if err != nil {
		return nil, i, err
	}

	return ast.CondOp{Base: span(l, r), Op: ast.Or, Left: l, Right: r}, i, nil
}

func (s *State) parseAnd(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseEq(ctx, st)
	if err != nil {
		return nil, i, err
	}

	if s.tok(i).Kind != lexer.And {
		return l, i, nil
	}

	r, i, err := s.parseAnd(ctx, i+1)
	if err != nil {
		return nil, i, err
	}

	return ast.CondOp{Base: span(l, r), Op: ast.And, Left: l, Right: r}, i, nil
}

// parseEq handles == and !=. Both operands come from the tighter level, so
// a == b == c leaves the second == unconsumed and the caller rejects it.
func (s *State) parseEq(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseCmp(ctx, st)
	if err != nil {
		return nil, i, err
	}

	var op ast.Op

	switch s.tok(i).Kind {
	case lexer.Eq:
		op = ast.Equal
	case lexer.NotEq:
		op = ast.NotEqual
	default:
		return l, i, nil
	}

	r, i, err := s.parseCmp(ctx, i+1)
	if err != nil {
		return nil, i, err
	}

	return ast.BinOp{Base: span(l, r), Op: op, Left: l, Right: r}, i, nil
}

func (s *State) parseCmp(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseSum(ctx, st)
	if err != nil {
		return nil, i, err
	}

	var op ast.Op

	switch s.tok(i).Kind {
	case lexer.LessEq:
		op = ast.Leq
	case lexer.Less:
		op = ast.Less
	case lexer.GreaterEq:
		op = ast.Geq
	case lexer.Greater:
		op = ast.Greater
	default:
		return l, i, nil
	}

	r, i, err := s.parseSum(ctx, i+1)
	if err != nil {
		return nil, i, err
	}

	return ast.BinOp{Base: span(l, r), Op: op, Left: l, Right: r}, i, nil
}

func (s *State) parseSum(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseProd(ctx, st)
	if err != nil {
		return nil, i, err
	}

	for {
		var op ast.Op

		switch s.tok(i).Kind {
		case lexer.Add:
			op = ast.Add
		case lexer.Sub:
			op = ast.Sub
		default:
			return l, i, nil
		}

		var r ast.Expr

		r, i, err = s.parseProd(ctx, i+1)
		if err != nil {
			return nil, i, err
		}

		l = ast.BinOp{Base: span(l, r), Op: op, Left: l, Right: r}
	}
}

func (s *State) parseProd(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	l, i, err := s.parseUnary(ctx, st)
	if err != nil {
		return nil, i, err
	}

	for {
		var op ast.Op

		switch s.tok(i).Kind {
		case lexer.Mul:
			op = ast.Mul
		case lexer.Div:
			op = ast.Div
		case lexer.Mod:
			op = ast.Mod
		default:
			return l, i, nil
		}

		var r ast.Expr

		r, i, err = s.parseUnary(ctx, i+1)
		if err != nil {
			return nil, i, err
		}

		l = ast.BinOp{Base: span(l, r), Op: op, Left: l, Right: r}
	}
}

func (s *State) parseUnary(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	tk := s.tok(st)
	if tk.Kind != lexer.Not {
		return s.parseAtom(ctx, st)
	}

	v, i, err := s.parseUnary(ctx, st+1)
	if err != nil {
		return nil, i, err
	}

	return ast.Not{Base: spanTo(tk.Pos, v), Value: v}, i, nil
}

// parseAtom tries, in order: call, literal, name, block, if/else, and the
// parenthesized form, which is a tuple or a grouping.
func (s *State) parseAtom(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	s.trace(st, "atom")

	tk := s.tok(st)

	switch tk.Kind {
	case lexer.Name:
		if s.tok(st+1).Kind != lexer.LParen {
			return ast.Name{Base: base(tk), Ident: tk.Str}, st + 1, nil
		}

		args, _, i, err := elems(s, st+2, func(i int) (ast.Expr, int, error) {
			return s.parseExpr(ctx, i)
		})
		if err != nil {
			return nil, i, errors.Wrap(err, "call %v", tk.Str)
		}

		return ast.Call{
			Base: ast.Base{Pos: tk.Pos, End: s.tok(i).End},
			Name: tk.Str,
			Args: args,
		}, i + 1, nil
	case lexer.Int:
		return ast.Int{Base: base(tk), Value: tk.Int}, st + 1, nil
	case lexer.Str:
		return ast.Str{Base: base(tk), Value: tk.Str}, st + 1, nil
	case lexer.Bool:
		return ast.Bool{Base: base(tk), Value: tk.Bool}, st + 1, nil
	case lexer.LBrace:
		b, i, err := s.parseBlock(ctx, st)
		if err != nil {
			return nil, i, err
		}

		return b, i, nil
	case lexer.If:
		return s.parseIfElse(ctx, st)
	case lexer.LParen:
		items, grouped, i, err := elems(s, st+1, func(i int) (ast.Expr, int, error) {
			return s.parseExpr(ctx, i)
		})
		if err != nil {
			return nil, i, err
		}

		if grouped {
			return items[0], i + 1, nil
		}

		return ast.MakeTuple{
			Base:  ast.Base{Pos: tk.Pos, End: s.tok(i).End},
			Items: items,
		}, i + 1, nil
	default:
		return nil, st, NewUnexpected(tk,
			lexer.Name, lexer.Int, lexer.Str, lexer.Bool,
			lexer.LBrace, lexer.If, lexer.LParen)
	}
}

// parseIfElse parses `if Expr Block`, then chases else clauses. An else
// binds to the nearest unmatched if: `else if` recurses so the whole chain
// becomes one right nested IfElse.
func (s *State) parseIfElse(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	s.trace(st, "if")

	_, i, err = s.expect(st, lexer.If)
	if err != nil {
		return nil, i, err
	}

	cond, i, err := s.parseExpr(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "condition")
	}

	then, i, err := s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "then")
	}

	r := ast.IfElse{
		Base: ast.Base{Pos: s.tok(st).Pos, End: then.End},
		Cond: cond,
		Then: then.Exprs,
	}

	if s.tok(i).Kind != lexer.Else {
		return r, i, nil
	}

	i++

	if s.tok(i).Kind == lexer.If {
		var nested ast.Expr

		nested, i, err = s.parseIfElse(ctx, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "else")
		}

		r.Else = []ast.Expr{nested}
		_, r.End = nested.Span()

		return r, i, nil
	}

	eb, i, err := s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "else")
	}

	r.Else = eb.Exprs
	r.End = eb.End

	return r, i, nil
}

func base(tk lexer.Token) ast.Base {
	return ast.Base{Pos: tk.Pos, End: tk.End}
}

func span(l, r ast.Node) ast.Base {
	pos, _ := l.Span()
	_, end := r.Span()

	return ast.Base{Pos: pos, End: end}
}

func spanTo(pos int, r ast.Node) ast.Base {
	_, end := r.Span()

	return ast.Base{Pos: pos, End: end}
}

// Package format renders an AST back to canonical source text.
package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/iku-lang/iku/compiler/ast"
)

// Binding strength of an expression, mirroring the parser's cascade.
// Used to decide where parentheses are required.
const (
	precAssign = iota
	precOr
	precAnd
	precEq
	precCmp
	precSum
	precProd
	precUnary
	precAtom
)

func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	switch x := x.(type) {
	case *ast.File:
		return formatFile(ctx, b, x, 0)
	case *ast.Func:
		return formatFunc(ctx, b, x, 0)
	case ast.TypeName:
		return formatType(ctx, b, x)
	case ast.Expr:
		return formatExpr(ctx, b, x, precAssign, 0)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatFile(ctx context.Context, b []byte, x *ast.File, d int) (_ []byte, err error) {
	for i, f := range x.Funcs {
		if i != 0 {
			b = append(b, '\n')
		}

		b, err = formatFunc(ctx, b, f, d)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.Func, d int) ([]byte, error) {
	b = app(b, d, "func %v(", x.Name)

	for i, a := range x.Args {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = app(b, 0, "%v ", a.Name)

		var err error

		b, err = formatType(ctx, b, a.Type)
		if err != nil {
			return nil, errors.Wrap(err, "arg %v", a.Name)
		}
	}

	b = append(b, ')')

	if x.Ret != nil {
		b = append(b, ' ')

		var err error

		b, err = formatType(ctx, b, x.Ret)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}
	}

	b = append(b, " {\n"...)

	b, err := formatBody(ctx, b, x.Body, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	b = app(b, d, "}\n")

	return b, nil
}

func formatType(ctx context.Context, b []byte, x ast.TypeName) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Type:
		return append(b, x.Name...), nil
	case ast.TupleType:
		b = append(b, '(')

		for i, t := range x.Items {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatType(ctx, b, t)
			if err != nil {
				return nil, err
			}
		}

		// a 1-tuple type only parses with the trailing comma
		if len(x.Items) == 1 {
			b = append(b, ',')
		}

		b = append(b, ')')

		return b, nil
	default:
		return nil, errors.New("unsupported type name: %T", x)
	}
}

func formatBody(ctx context.Context, b []byte, body []ast.Expr, d int) (_ []byte, err error) {
	for _, e := range body {
		b = app(b, d, "")

		b, err = formatExpr(ctx, b, e, precAssign, d)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}

		b = append(b, '\n')
	}

	return b, nil
}

// formatExpr appends x, parenthesizing it when its binding strength is
// below min, the loosest the surrounding position accepts bare.
func formatExpr(ctx context.Context, b []byte, x ast.Expr, min, d int) (_ []byte, err error) {
	p := prec(x)

	if p < min {
		b = append(b, '(')
	}

	switch x := x.(type) {
	case ast.Declare:
		b = app(b, 0, "%v := ", x.Name)

		b, err = formatExpr(ctx, b, x.Value, precOr, d)
	case ast.Assign:
		b = app(b, 0, "%v = ", x.Name)

		b, err = formatExpr(ctx, b, x.Value, precOr, d)
	case ast.CondOp:
		// right associative: bare same-level operand on the right only
		b, err = formatExpr(ctx, b, x.Left, p+1, d)
		if err != nil {
			break
		}

		b = app(b, 0, " %v ", x.Op)

		b, err = formatExpr(ctx, b, x.Right, p, d)
	case ast.BinOp:
		lmin, rmin := p, p+1
		if p == precEq || p == precCmp {
			// non associative: parenthesize same-level operands on both sides
			lmin = p + 1
		}

		b, err = formatExpr(ctx, b, x.Left, lmin, d)
		if err != nil {
			break
		}

		b = app(b, 0, " %v ", x.Op)

		b, err = formatExpr(ctx, b, x.Right, rmin, d)
	case ast.Not:
		b = append(b, '!')

		b, err = formatExpr(ctx, b, x.Value, precUnary, d)
	case ast.Call:
		b = app(b, 0, "%v(", x.Name)

		b, err = formatList(ctx, b, x.Args, d)
		if err != nil {
			break
		}

		b = append(b, ')')
	case ast.Name:
		b = append(b, x.Ident...)
	case ast.Int:
		b = app(b, 0, "%d", x.Value)
	case ast.Str:
		b = appendQuoted(b, x.Value)
	case ast.Bool:
		b = app(b, 0, "%v", x.Value)
	case ast.Block:
		b = append(b, "{\n"...)

		b, err = formatBody(ctx, b, x.Exprs, d+1)
		if err != nil {
			break
		}

		b = app(b, d, "}")
	case ast.IfElse:
		b, err = formatIfElse(ctx, b, x, d)
	case ast.MakeTuple:
		b = append(b, '(')

		b, err = formatList(ctx, b, x.Items, d)
		if err != nil {
			break
		}

		if len(x.Items) == 1 {
			b = append(b, ',')
		}

		b = append(b, ')')
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	if err != nil {
		return nil, err
	}

	if p < min {
		b = append(b, ')')
	}

	return b, nil
}

func formatIfElse(ctx context.Context, b []byte, x ast.IfElse, d int) (_ []byte, err error) {
	b = append(b, "if "...)

	b, err = formatExpr(ctx, b, x.Cond, precAssign, d)
	if err != nil {
		return nil, errors.Wrap(err, "cond")
	}

	b = append(b, " {\n"...)

	b, err = formatBody(ctx, b, x.Then, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "then")
	}

	b = app(b, d, "}")

	if len(x.Else) == 0 {
		return b, nil
	}

	b = append(b, " else "...)

	// an else branch holding a single if/else is a chain link
	if n, ok := chainLink(x.Else); ok {
		return formatIfElse(ctx, b, n, d)
	}

	b = append(b, "{\n"...)

	b, err = formatBody(ctx, b, x.Else, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "else")
	}

	b = app(b, d, "}")

	return b, nil
}

func chainLink(els []ast.Expr) (ast.IfElse, bool) {
	if len(els) != 1 {
		return ast.IfElse{}, false
	}

	n, ok := els[0].(ast.IfElse)

	return n, ok
}

func formatList(ctx context.Context, b []byte, l []ast.Expr, d int) (_ []byte, err error) {
	for i, e := range l {
		if i != 0 {
			b = append(b, ", "...)
		}

		b, err = formatExpr(ctx, b, e, precAssign, d)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

func appendQuoted(b []byte, s string) []byte {
	b = append(b, '"')

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b = append(b, `\n`...)
		case '\r':
			b = append(b, `\r`...)
		case '\t':
			b = append(b, `\t`...)
		case '\\':
			b = append(b, `\\`...)
		default:
			b = append(b, s[i])
		}
	}

	return append(b, '"')
}

func prec(x ast.Expr) int {
	switch x := x.(type) {
	case ast.Declare, ast.Assign:
		return precAssign
	case ast.CondOp:
		if x.Op == ast.Or {
			return precOr
		}

		return precAnd
	case ast.BinOp:
		switch x.Op {
		case ast.Equal, ast.NotEqual:
			return precEq
		case ast.Leq, ast.Less, ast.Geq, ast.Greater:
			return precCmp
		case ast.Add, ast.Sub:
			return precSum
		default:
			return precProd
		}
	case ast.Not:
		return precUnary
	default:
		return precAtom
	}
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}

package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iku-lang/iku/compiler/ast"
	"github.com/iku-lang/iku/compiler/lexer"
)

func parseProg(t *testing.T, src string) (*ast.File, error) {
	t.Helper()

	ctx := context.Background()

	toks, err := lexer.Tokenize(ctx, []byte(src))
	require.NoError(t, err)

	return Parse(ctx, toks)
}

func TestEmptyProgram(t *testing.T) {
	f, err := parseProg(t, "")
	require.NoError(t, err)
	assert.Len(t, f.Funcs, 0)
}

func TestFuncOrder(t *testing.T) {
	f, err := parseProg(t, `
func one() { }
func two() { }
func one() { }
`)
	require.NoError(t, err)
	require.Len(t, f.Funcs, 3)

	// source order, duplicates allowed at this layer
	assert.Equal(t, "one", f.Funcs[0].Name)
	assert.Equal(t, "two", f.Funcs[1].Name)
	assert.Equal(t, "one", f.Funcs[2].Name)
}

func TestFuncSemiSeparated(t *testing.T) {
	f, err := parseProg(t, `func a() { }; func b() { }`)
	require.NoError(t, err)
	assert.Len(t, f.Funcs, 2)
}

func TestFuncSignature(t *testing.T) {
	f, err := parseProg(t, `func f(a I32, b I32) I32 { a + b }`)
	require.NoError(t, err)
	require.Len(t, f.Funcs, 1)

	fn := f.Funcs[0]
	assert.Equal(t, "f", fn.Name)

	require.Len(t, fn.Args, 2)
	assert.Equal(t, "a", fn.Args[0].Name)
	assert.Equal(t, ast.Type{Base: ast.Base{Pos: 9, End: 12}, Name: "I32"}, fn.Args[0].Type)
	assert.Equal(t, "b", fn.Args[1].Name)
	assert.Equal(t, "I32", fn.Args[1].Type.(ast.Type).Name)

	require.NotNil(t, fn.Ret)
	assert.Equal(t, "I32", fn.Ret.(ast.Type).Name)

	require.Len(t, fn.Body, 1)

	sum := fn.Body[0].(ast.BinOp)
	assert.Equal(t, ast.Add, sum.Op)
	assert.Equal(t, "a", sum.Left.(ast.Name).Ident)
	assert.Equal(t, "b", sum.Right.(ast.Name).Ident)
}

func TestFuncNoReturnType(t *testing.T) {
	f, err := parseProg(t, `func f() { }`)
	require.NoError(t, err)
	assert.Nil(t, f.Funcs[0].Ret)
}

func TestFuncArgsTrailingComma(t *testing.T) {
	f, err := parseProg(t, `func f(a I32, b Str,) { }`)
	require.NoError(t, err)
	require.Len(t, f.Funcs[0].Args, 2)
	assert.Equal(t, "Str", f.Funcs[0].Args[1].Type.(ast.Type).Name)
}

func TestFuncTupleTypes(t *testing.T) {
	f, err := parseProg(t, `func f(a (I32, Str), b ()) (I32, (Bool,)) { }`)
	require.NoError(t, err)

	fn := f.Funcs[0]

	a := fn.Args[0].Type.(ast.TupleType)
	require.Len(t, a.Items, 2)
	assert.Equal(t, "I32", a.Items[0].(ast.Type).Name)
	assert.Equal(t, "Str", a.Items[1].(ast.Type).Name)

	b := fn.Args[1].Type.(ast.TupleType)
	assert.Len(t, b.Items, 0)

	ret := fn.Ret.(ast.TupleType)
	require.Len(t, ret.Items, 2)

	one := ret.Items[1].(ast.TupleType)
	require.Len(t, one.Items, 1)
	assert.Equal(t, "Bool", one.Items[0].(ast.Type).Name)
}

// The type grammar has no grouping form: one element needs the trailing
// comma, `(T)` is an error, not a 1-tuple.
func TestTupleTypeOneElementNeedsComma(t *testing.T) {
	_, err := parseProg(t, `func f(a (I32)) { }`)
	require.Error(t, err)

	var unexp UnexpectedError
	require.ErrorAs(t, err, &unexp)
	assert.Equal(t, lexer.RParen, unexp.Token.Kind)
	assert.Equal(t, []lexer.Kind{lexer.Comma}, unexp.Want)
}

func TestBlockSequences(t *testing.T) {
	f, err := parseProg(t, `func f() { a; b; c }`)
	require.NoError(t, err)
	require.Len(t, f.Funcs[0].Body, 3)

	// trailing semicolon changes downstream value semantics, not the
	// stored sequence
	f, err = parseProg(t, `func f() { a; b; c; }`)
	require.NoError(t, err)
	require.Len(t, f.Funcs[0].Body, 3)
}

func TestBlockNested(t *testing.T) {
	f, err := parseProg(t, `func f() { x := { a; 1 } }`)
	require.NoError(t, err)

	d := f.Funcs[0].Body[0].(ast.Declare)
	assert.Equal(t, "x", d.Name)

	blk := d.Value.(ast.Block)
	require.Len(t, blk.Exprs, 2)
	assert.Equal(t, int64(1), blk.Exprs[1].(ast.Int).Value)
}

func TestTrailingTokens(t *testing.T) {
	_, err := parseProg(t, `func f() { } )`)
	require.Error(t, err)

	var unexp UnexpectedError
	require.ErrorAs(t, err, &unexp)
	assert.Equal(t, lexer.RParen, unexp.Token.Kind)
}

func TestDanglingFuncHeader(t *testing.T) {
	_, err := parseProg(t, `func f(`)
	require.Error(t, err)

	var unexp UnexpectedError
	require.ErrorAs(t, err, &unexp)
	assert.Equal(t, lexer.EOF, unexp.Token.Kind)
}

func TestLexErrorPropagates(t *testing.T) {
	ctx := context.Background()

	_, err := lexer.Tokenize(ctx, []byte(`func f() { a ? b }`))
	require.Error(t, err)

	var lexErr lexer.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 13, lexErr.Pos)
}

func TestSpans(t *testing.T) {
	src := `func f() { a + b }`

	f, err := parseProg(t, src)
	require.NoError(t, err)

	pos, end := f.Funcs[0].Span()
	assert.Equal(t, 0, pos)
	assert.Equal(t, len(src), end)

	pos, end = f.Funcs[0].Body[0].Span()
	assert.Equal(t, "a + b", src[pos:end])
}

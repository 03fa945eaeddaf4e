/*
Process of compilation

Program Text ->

	tokenize ->

Tokens ->

	parse ->

Abstract Syntax Tree (ast)

Later stages (type checking, code generation) consume the tree; this module
stops at a syntactically valid tree or a syntax error.
*/
package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/iku-lang/iku/compiler/ast"
	"github.com/iku-lang/iku/compiler/lexer"
	"github.com/iku-lang/iku/compiler/parse"
)

// ParseFile reads and parses a single source file.
func ParseFile(ctx context.Context, name string) (*ast.File, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return ParseData(ctx, text)
}

// ParseData tokenizes and parses source text.
func ParseData(ctx context.Context, text []byte) (*ast.File, error) {
	toks, err := lexer.Tokenize(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	tlog.SpanFromContext(ctx).Printw("tokenized", "tokens", len(toks))

	f, err := parse.Parse(ctx, toks)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return f, nil
}

package lexer

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
)

type (
	// Kind classifies a token. Value-carrying kinds (Name, TypeIdent, Int,
	// Str, Bool) have the decoded value attached to the Token.
	Kind int

	Token struct {
		Kind Kind

		Pos int // byte offset of the first byte
		End int // byte offset past the last byte

		Str  string
		Int  int64
		Bool bool
	}

	LexError struct {
		Pos int
		Msg string
	}
)

const (
	None Kind = iota

	LBrace // {
	RBrace // }
	LParen // (
	RParen // )
	Semi   // ;
	Comma  // ,

	Define    // :=
	Assign    // =
	Eq        // ==
	NotEq     // !=
	LessEq    // <=
	Less      // <
	GreaterEq // >=
	Greater   // >
	Add       // +
	Sub       // -
	Mul       // *
	Div       // /
	Mod       // %
	And       // &&
	Or        // ||
	Not       // !

	Func
	If
	Else

	Name      // lowercase identifier
	TypeIdent // uppercase identifier
	Int
	Str
	Bool

	EOF
)

// Tokenize scans the whole input and returns its tokens, EOF terminated.
// Line comments and whitespace are skipped. A newline following a token
// that can end an expression inserts a single Semi token.
func Tokenize(ctx context.Context, b []byte) ([]Token, error) {
	var toks []Token

	semi := false // previous token can end an expression

	for i := 0; i < len(b); {
		st, nl := skipTrivia(b, i)

		if semi && nl {
			toks = append(toks, Token{Kind: Semi, Pos: i, End: st})
			semi = false
			i = st

			continue
		}

		i = st
		if i == len(b) {
			break
		}

		tk, e, err := scan(b, i)
		if err != nil {
			return nil, errors.Wrap(err, "at pos 0x%x", i)
		}

		toks = append(toks, tk)
		semi = endsExpr(tk.Kind)
		i = e
	}

	toks = append(toks, Token{Kind: EOF, Pos: len(b), End: len(b)})

	return toks, nil
}

func scan(b []byte, st int) (tk Token, i int, err error) {
	i = st
	c := b[i]

	switch c {
	case '{':
		return tok(LBrace, st, i+1), i + 1, nil
	case '}':
		return tok(RBrace, st, i+1), i + 1, nil
	case '(':
		return tok(LParen, st, i+1), i + 1, nil
	case ')':
		return tok(RParen, st, i+1), i + 1, nil
	case ';':
		return tok(Semi, st, i+1), i + 1, nil
	case ',':
		return tok(Comma, st, i+1), i + 1, nil
	case '+':
		return tok(Add, st, i+1), i + 1, nil
	case '-':
		return tok(Sub, st, i+1), i + 1, nil
	case '*':
		return tok(Mul, st, i+1), i + 1, nil
	case '/':
		return tok(Div, st, i+1), i + 1, nil
	case '%':
		return tok(Mod, st, i+1), i + 1, nil
	case ':':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(Define, st, i+2), i + 2, nil
		}

		return tk, i, LexError{Pos: st, Msg: "expected := after :"}
	case '=':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(Eq, st, i+2), i + 2, nil
		}

		return tok(Assign, st, i+1), i + 1, nil
	case '!':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(NotEq, st, i+2), i + 2, nil
		}

		return tok(Not, st, i+1), i + 1, nil
	case '<':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(LessEq, st, i+2), i + 2, nil
		}

		return tok(Less, st, i+1), i + 1, nil
	case '>':
		if i+1 < len(b) && b[i+1] == '=' {
			return tok(GreaterEq, st, i+2), i + 2, nil
		}

		return tok(Greater, st, i+1), i + 1, nil
	case '&':
		if i+1 < len(b) && b[i+1] == '&' {
			return tok(And, st, i+2), i + 2, nil
		}

		return tk, i, LexError{Pos: st, Msg: "expected && after &"}
	case '|':
		if i+1 < len(b) && b[i+1] == '|' {
			return tok(Or, st, i+2), i + 2, nil
		}

		return tk, i, LexError{Pos: st, Msg: "expected || after |"}
	case '"':
		return scanString(b, st)
	}

	switch {
	case c >= '0' && c <= '9':
		i = skipDigits(b, i)

		var v int64
		for _, d := range b[st:i] {
			v = v*10 + int64(d-'0')
		}

		return Token{Kind: Int, Pos: st, End: i, Int: v}, i, nil
	case c >= 'a' && c <= 'z' || c >= 0x80:
		i = skipIdent(b, i+1)

		switch string(b[st:i]) {
		case "func":
			return tok(Func, st, i), i, nil
		case "if":
			return tok(If, st, i), i, nil
		case "else":
			return tok(Else, st, i), i, nil
		case "true":
			return Token{Kind: Bool, Pos: st, End: i, Bool: true}, i, nil
		case "false":
			return Token{Kind: Bool, Pos: st, End: i, Bool: false}, i, nil
		}

		return Token{Kind: Name, Pos: st, End: i, Str: string(b[st:i])}, i, nil
	case c >= 'A' && c <= 'Z':
		i = skipIdent(b, i+1)

		return Token{Kind: TypeIdent, Pos: st, End: i, Str: string(b[st:i])}, i, nil
	}

	return tk, i, LexError{Pos: st, Msg: fmt.Sprintf("unrecognized character %q", c)}
}

func scanString(b []byte, st int) (tk Token, i int, err error) {
	i = st + 1

	for i < len(b) && b[i] != '"' {
		i++
	}

	if i == len(b) {
		return tk, i, LexError{Pos: st, Msg: "unterminated string"}
	}

	return Token{Kind: Str, Pos: st, End: i + 1, Str: unescape(b[st+1 : i])}, i + 1, nil
}

// unescape decodes \n \r \t \\ sequences. An unknown escape keeps the
// backslash and the following character as they are.
func unescape(b []byte) string {
	r := make([]byte, 0, len(b))

	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			r = append(r, b[i])
			continue
		}

		i++

		switch b[i] {
		case 'n':
			r = append(r, '\n')
		case 'r':
			r = append(r, '\r')
		case 't':
			r = append(r, '\t')
		case '\\':
			r = append(r, '\\')
		default:
			r = append(r, '\\', b[i])
		}
	}

	return string(r)
}

// skipTrivia skips whitespace and // comments starting at i.
// nl reports whether a newline was crossed.
func skipTrivia(b []byte, i int) (_ int, nl bool) {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r':
			i++
		case '\n':
			nl = true
			i++
		case '/':
			if i+1 == len(b) || b[i+1] != '/' {
				return i, nl
			}

			for i < len(b) && b[i] != '\n' {
				i++
			}
		default:
			return i, nl
		}
	}

	return i, nl
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] == '_' ||
		b[i] >= 'A' && b[i] <= 'Z' ||
		b[i] >= 'a' && b[i] <= 'z' ||
		b[i] >= '0' && b[i] <= '9' ||
		b[i] >= 0x80) {
		i++
	}

	return i
}

func skipDigits(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	return i
}

func endsExpr(k Kind) bool {
	switch k {
	case RParen, RBrace, Name, TypeIdent, Int, Str, Bool:
		return true
	}

	return false
}

func tok(k Kind, pos, end int) Token {
	return Token{Kind: k, Pos: pos, End: end}
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s at pos 0x%x", e.Msg, e.Pos)
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = [...]string{
	None:      "none",
	LBrace:    "{",
	RBrace:    "}",
	LParen:    "(",
	RParen:    ")",
	Semi:      ";",
	Comma:     ",",
	Define:    ":=",
	Assign:    "=",
	Eq:        "==",
	NotEq:     "!=",
	LessEq:    "<=",
	Less:      "<",
	GreaterEq: ">=",
	Greater:   ">",
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	Mod:       "%",
	And:       "&&",
	Or:        "||",
	Not:       "!",
	Func:      "func",
	If:        "if",
	Else:      "else",
	Name:      "name",
	TypeIdent: "type name",
	Int:       "int litteral",
	Str:       "string litteral",
	Bool:      "bool litteral",
	EOF:       "end of input",
}

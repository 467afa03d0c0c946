package parse

import (
	"fmt"
	"strconv"
	"unicode"
)

type TokenKind int

const (
	EOF TokenKind = iota
	INT
	STRING
	IDENT
	KEYWORD
	OPERATOR
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	COMMA
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case INT:
		return "INT"
	case STRING:
		return "STRING"
	case IDENT:
		return "IDENT"
	case KEYWORD:
		return "KEYWORD"
	case OPERATOR:
		return "OPERATOR"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case COMMA:
		return "','"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var keywords = map[string]bool{
	"let":    true,
	"if":     true,
	"else":   true,
	"print":  true,
	"true":   true,
	"false":  true,
	"while":  true,
	"fun":    true,
	"return": true,
}

type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type Token struct {
	Kind TokenKind
	Text string
	Int  int
	Pos  Position
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// SyntaxError is returned for source the lexer or parser cannot accept.
type SyntaxError struct {
	Filename string
	Pos      Position
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Filename, e.Pos, e.Msg)
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) peek(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) errorf(pos Position, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Tokenize splits src into tokens, ending with an EOF token.
func Tokenize(src string) ([]Token, error) {
	l := newLexer(src)
	var out []Token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.Kind == EOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.src) {
		r := l.peek(0)
		pos := Position{Line: l.line, Col: l.col}
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.peek(0) != '\n' {
				l.advance()
			}
		case unicode.IsDigit(r):
			return l.number(pos)
		case unicode.IsLetter(r) || r == '_':
			return l.word(pos), nil
		case r == '"':
			return l.str(pos)
		case (r == '=' || r == '!') && l.peek(1) == '=':
			l.advance()
			l.advance()
			return Token{Kind: OPERATOR, Text: string(r) + "=", Pos: pos}, nil
		case r == '=' || r == '+' || r == '-' || r == '*' || r == '/' || r == '<' || r == '>':
			l.advance()
			return Token{Kind: OPERATOR, Text: string(r), Pos: pos}, nil
		case r == '{':
			l.advance()
			return Token{Kind: LBRACE, Text: "{", Pos: pos}, nil
		case r == '}':
			l.advance()
			return Token{Kind: RBRACE, Text: "}", Pos: pos}, nil
		case r == '(':
			l.advance()
			return Token{Kind: LPAREN, Text: "(", Pos: pos}, nil
		case r == ')':
			l.advance()
			return Token{Kind: RPAREN, Text: ")", Pos: pos}, nil
		case r == ',':
			l.advance()
			return Token{Kind: COMMA, Text: ",", Pos: pos}, nil
		default:
			return Token{}, l.errorf(pos, "invalid character %q", r)
		}
	}
	return Token{Kind: EOF, Pos: Position{Line: l.line, Col: l.col}}, nil
}

func (l *lexer) number(pos Position) (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek(0)) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	n, err := strconv.Atoi(text)
	if err != nil {
		return Token{}, l.errorf(pos, "integer literal %s out of range", text)
	}
	return Token{Kind: INT, Text: text, Int: n, Pos: pos}, nil
}

func (l *lexer) word(pos Position) Token {
	start := l.pos
	for l.pos < len(l.src) && (unicode.IsLetter(l.peek(0)) || unicode.IsDigit(l.peek(0)) || l.peek(0) == '_') {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if keywords[text] {
		return Token{Kind: KEYWORD, Text: text, Pos: pos}
	}
	return Token{Kind: IDENT, Text: text, Pos: pos}
}

// Strings have no escapes; everything up to the closing quote is taken as is.
func (l *lexer) str(pos Position) (Token, error) {
	l.advance()
	start := l.pos
	for l.pos < len(l.src) && l.peek(0) != '"' {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return Token{}, l.errorf(pos, "unterminated string")
	}
	text := string(l.src[start:l.pos])
	l.advance()
	return Token{Kind: STRING, Text: text, Pos: pos}, nil
}

package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("let x_1 = 42 // answer\nprint \"a b\" != x_1")
	require.NoError(t, err)
	var kinds []TokenKind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	require.Equal(t, []TokenKind{KEYWORD, IDENT, OPERATOR, INT, KEYWORD, STRING, OPERATOR, IDENT, EOF}, kinds)
	require.Equal(t, []string{"let", "x_1", "=", "42", "print", "a b", "!=", "x_1", ""}, texts)
	require.Equal(t, 42, toks[3].Int)
	require.Equal(t, Position{Line: 2, Col: 1}, toks[4].Pos)
	require.Equal(t, Position{Line: 2, Col: 13}, toks[6].Pos)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		src string
		pos Position
	}{
		{src: `print "open`, pos: Position{Line: 1, Col: 7}},
		{src: "let x = 1\n  @", pos: Position{Line: 2, Col: 3}},
		{src: "99999999999999999999999", pos: Position{Line: 1, Col: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
			require.Equal(t, tt.pos, se.Pos)
		})
	}
}

package parse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "print 2 + 3 * 4", "{ print (2 + (3 * 4)) }"},
		{"comparison loosest", "let x = 1 < 2 + 3", "{ let x = (1 < (2 + 3)) }"},
		{"parens", "print (2 + 3) * 4", "{ print ((2 + 3) * 4) }"},
		{"left assoc", "10 - 3 - 2", "{ ((10 - 3) - 2) }"},
		{"bools", "print true == false", "{ print (true == false) }"},
		{"comment", "print \"hi\" // trailing\n", `{ print "hi" }`},
		{"while", "while i < 3 { let i = i + 1 }", "{ while (i < 3) { let i = (i + 1) } }"},
		{
			"else if",
			"if x { print 1 } else if y { print 2 } else { print 3 }",
			"{ if x { print 1 } else { if y { print 2 } else { print 3 } } }",
		},
		{
			"function and call",
			"fun add(a, b) { return a + b }\nadd(1, 2)",
			"{ fun add(a, b) { return (a + b) }; add(1, 2) }",
		},
		{"bare return", "fun f() { return }", "{ fun f() { return } }"},
		{"empty", "", "{  }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse(tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.want, b.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"let = 3",
		"let x 3",
		"if x { print 1",
		"fun f(1) { }",
		"print )",
		"while x print 1",
		"}",
		"f(1, 2",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("let x = 1\nlet = 2")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, Position{Line: 2, Col: 5}, se.Pos)
}

func TestParseSource(t *testing.T) {
	_, err := ParseSource("bad.nova", []byte("let = 1"))
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "bad.nova", se.Filename)
	require.Contains(t, err.Error(), "bad.nova:1:5")

	b, err := ParseSource("ok.star", []byte("x = 1\nprint(x)\n"))
	require.NoError(t, err)
	require.Equal(t, "{ let x = 1; print x }", b.String())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.nova")
	require.NoError(t, os.WriteFile(path, []byte(`print "hello"`), 0o644))
	b, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, `{ print "hello" }`, b.String())

	_, err = ParseFile(filepath.Join(dir, "missing.nova"))
	require.Error(t, err)
}

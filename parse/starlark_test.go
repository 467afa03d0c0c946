package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStarlark(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"recursion",
			"def fact(n):\n    if n < 2:\n        return 1\n    return n * fact(n - 1)\nprint(fact(5))\n",
			"{ fun fact(n) { if (n < 2) { return 1 }; return (n * fact((n - 1))) }; print fact(5) }",
		},
		{
			"elif",
			"if x:\n    print(1)\nelif y:\n    print(2)\nelse:\n    print(3)\n",
			"{ if x { print 1 } else { if y { print 2 } else { print 3 } } }",
		},
		{
			"while",
			"i = 0\nwhile i < 3:\n    print(i)\n    i += 1\n",
			"{ let i = 0; while (i < 3) { print i; let i = (i + 1) } }",
		},
		{"bools and strings", "ok = True != False\ns = \"a\" + 'b'\n", `{ let ok = (true != false); let s = ("a" + "b") }`},
		{"unary", "x = -y\n", "{ let x = (0 - y) }"},
		{"bare return", "def f():\n    return\n", "{ fun f() { return } }"},
		{"expression statement", "f(1, 2)\n", "{ f(1, 2) }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseStarlark(tt.name+".star", tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.want, b.String())
		})
	}
}

func TestStarlarkMatchesNova(t *testing.T) {
	nova, err := Parse("fun sub(a, b) { return a - b }\nprint sub(10, 3)")
	require.NoError(t, err)
	star, err := ParseStarlark("sub.star", "def sub(a, b):\n    return a - b\nprint(sub(10, 3))\n")
	require.NoError(t, err)
	require.Equal(t, nova.String(), star.String())
}

func TestParseStarlarkUnsupported(t *testing.T) {
	for _, src := range []string{
		"x = [1]\n",
		"x = 1.5\n",
		"for x in y:\n    print(x)\n",
		"print(1, 2)\n",
		"f(a=1)\n",
		"x = a % b\n",
		"a.b = 1\n",
		"def f(*args):\n    return 1\n",
		"def (\n",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseStarlark("bad.star", src)
			require.Error(t, err)
		})
	}
}

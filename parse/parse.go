package parse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nandy2uy/Nova-language/ast"
)

// Extensions recognized by ParseFile.
const (
	NovaExt     = ".nova"
	StarlarkExt = ".star"
)

// ParseFile reads path and parses it with the frontend its extension selects:
// Starlark for .star, Nova for anything else.
func ParseFile(path string) (*ast.Block, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(path, src)
}

// ParseSource parses src as if it had been read from filename.
func ParseSource(filename string, src []byte) (*ast.Block, error) {
	if filepath.Ext(filename) == StarlarkExt {
		return ParseStarlark(filename, src)
	}
	b, err := Parse(string(src))
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Filename = filename
			return nil, se
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return b, nil
}

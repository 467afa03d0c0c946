package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nandy2uy/Nova-language/cas"
	"github.com/nandy2uy/Nova-language/interp"
	"github.com/nandy2uy/Nova-language/parse"
	"github.com/nandy2uy/Nova-language/vm"
)

// An Executor is a compiled program ready to run under its spec's limits.
type Executor struct {
	Program *vm.Program
	Spec    *Spec
}

// CompileFile parses and compiles the Nova or Starlark file at path. With a
// cache, identical sources are compiled once.
func CompileFile(path string, cache *cas.ProgramCache) (*vm.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	compile := func() (*vm.Program, error) {
		tree, err := parse.ParseSource(path, src)
		if err != nil {
			return nil, err
		}
		p, err := vm.Compile(tree)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil
	}
	if cache == nil {
		return compile()
	}
	return cache.GetOrCompile(cas.SourceKey(filepath.Ext(path), src), compile)
}

// Options are the machine options the spec asks for.
func (e *Executor) Options() []interp.Option {
	return []interp.Option{
		interp.WithMaxSteps(e.Spec.Run.MaxSteps),
		interp.WithMaxDepth(e.Spec.Run.MaxDepth),
	}
}

// Run executes the program on a fresh machine, printing to out.
func (e *Executor) Run(ctx context.Context, out io.Writer, opts ...interp.Option) (*interp.Machine, error) {
	opts = append(append(e.Options(), interp.WithOutput(out)), opts...)
	return interp.RunProgram(ctx, e.Program, opts...)
}

package vm

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Op is one instruction: an opcode and its operand (nil when unused).
type Op struct {
	Code Opcode
	Arg  Operand
}

func (o Op) String() string {
	if o.Arg == nil {
		return o.Code.String()
	}
	switch o.Arg.(type) {
	case StrValue:
		return fmt.Sprintf("%s %q", o.Code, o.Arg.String())
	}
	return fmt.Sprintf("%s %s", o.Code, o.Arg)
}

// FunctionInfo is a function's entry point and ordered parameter names.
type FunctionInfo struct {
	Start  int
	Params []string
}

type FunctionTable map[string]FunctionInfo

// Program is a compiled instruction sequence and its function table. It is
// never modified once returned by the compiler.
type Program struct {
	Code      []Op
	Functions FunctionTable
}

var ErrEndOfCode = errors.New("end of code")

func (p *Program) Len() int {
	return len(p.Code)
}

func (p *Program) GetInstruction(ip int) (Op, error) {
	if ip < 0 || ip >= len(p.Code) {
		return Op{}, ErrEndOfCode
	}
	return p.Code[ip], nil
}

func (p *Program) Resolve(name string) (FunctionInfo, bool) {
	fn, ok := p.Functions[name]
	return fn, ok
}

// Validate checks that every jump target and function start lies within
// [0, Len()].
func (p *Program) Validate() error {
	for i, op := range p.Code {
		if !op.Code.IsJump() {
			continue
		}
		t, ok := op.Arg.(TargetArg)
		if !ok {
			return fmt.Errorf("instruction %d: %s has non-target operand %v", i, op.Code, op.Arg)
		}
		if t == placeholder {
			return fmt.Errorf("instruction %d: %s was never backpatched", i, op.Code)
		}
		if int(t) < 0 || int(t) > len(p.Code) {
			return fmt.Errorf("instruction %d: %s target %d out of range [0, %d]", i, op.Code, t, len(p.Code))
		}
	}
	for name, fn := range p.Functions {
		if fn.Start < 0 || fn.Start > len(p.Code) {
			return fmt.Errorf("function %s: start %d out of range", name, fn.Start)
		}
	}
	return nil
}

// HasPrefix reports whether p begins with every instruction of other and
// carries all of its functions unchanged.
func (p *Program) HasPrefix(other *Program) bool {
	if len(other.Code) > len(p.Code) {
		return false
	}
	if !slices.Equal(p.Code[:len(other.Code)], other.Code) {
		return false
	}
	for name, fn := range other.Functions {
		mine, ok := p.Functions[name]
		if !ok || mine.Start != fn.Start || !slices.Equal(mine.Params, fn.Params) {
			return false
		}
	}
	return true
}

func (p *Program) DebugPrint(w io.Writer) {
	names := slices.Sorted(maps.Keys(p.Functions))
	fmt.Fprintf(w, "Functions: %d\n", len(names))
	for _, name := range names {
		fn := p.Functions[name]
		fmt.Fprintf(w, "  %s(%s) @%d\n", name, strings.Join(fn.Params, ", "), fn.Start)
	}
	fmt.Fprintln(w, "*** Code")
	for i, op := range p.Code {
		fmt.Fprintf(w, "  %04d: %s\n", i, op)
	}
}

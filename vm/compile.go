package vm

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/nandy2uy/Nova-language/ast"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUnknownNode     = errors.New("unknown node")
	ErrArityMismatch   = errors.New("arity mismatch")
)

// CompileError reports a tree the compiler refuses, naming the offending node.
type CompileError struct {
	Node ast.Node
	Err  error
}

func (e *CompileError) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("compile: %s", e.Err)
	}
	return fmt.Sprintf("compile: %s in %s", e.Err, e.Node)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// compileContext accumulates the instructions and function table of one
// compilation. It is threaded through the tree walk and turned into a Program
// at the end.
type compileContext struct {
	ops       []Op
	functions FunctionTable
	calls     []*ast.Call
}

func newCompileContext() *compileContext {
	return &compileContext{
		functions: make(FunctionTable),
	}
}

func (cc *compileContext) clone() *compileContext {
	return &compileContext{
		ops:       slices.Clone(cc.ops),
		functions: maps.Clone(cc.functions),
		calls:     slices.Clone(cc.calls),
	}
}

// here is the index the next emitted instruction will occupy.
func (cc *compileContext) here() int {
	return len(cc.ops)
}

func (cc *compileContext) emit(code Opcode, args ...Operand) int {
	op := Op{Code: code}
	if len(args) != 0 {
		op.Arg = args[0]
	}
	cc.ops = append(cc.ops, op)
	return len(cc.ops) - 1
}

// emitJump emits a jump with a placeholder target and returns its index for
// patchJump.
func (cc *compileContext) emitJump(code Opcode) int {
	return cc.emit(code, placeholder)
}

// patchJump points the jump at index at to the next instruction to be emitted.
func (cc *compileContext) patchJump(at int) {
	cc.patchJumpTo(at, cc.here())
}

func (cc *compileContext) patchJumpTo(at int, target int) {
	op := cc.ops[at]
	if !op.Code.IsJump() || op.Arg != placeholder {
		panic(fmt.Sprintf("patchJump: instruction %d (%s) is not an unpatched jump", at, op))
	}
	op.Arg = TargetArg(target)
	cc.ops[at] = op
}

// checkCalls verifies every call site naming a known function passes as many
// arguments as it declares. Unknown names are left for the VM to fault on.
func (cc *compileContext) checkCalls() error {
	for _, c := range cc.calls {
		fn, ok := cc.functions[c.Name]
		if !ok {
			continue
		}
		if len(c.Args) != len(fn.Params) {
			return &CompileError{
				Node: c,
				Err:  fmt.Errorf("%w: %s takes %d arguments, called with %d", ErrArityMismatch, c.Name, len(fn.Params), len(c.Args)),
			}
		}
	}
	return nil
}

func (cc *compileContext) intoProgram() (*Program, error) {
	p := &Program{
		Code:      slices.Clone(cc.ops),
		Functions: make(FunctionTable, len(cc.functions)),
	}
	for name, fn := range cc.functions {
		p.Functions[name] = FunctionInfo{Start: fn.Start, Params: slices.Clone(fn.Params)}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("compile: internal error: %w", err)
	}
	return p, nil
}

// Compile translates a tree into a Program. Compilation is deterministic and
// visits function bodies where they are declared.
func Compile(root ast.Node) (*Program, error) {
	return NewUnit().Add(root)
}

// A Unit compiles a sequence of top-level trees into one growing program, as
// a REPL does. Every successful Add returns a new Program whose code extends
// the previous one.
type Unit struct {
	cc *compileContext
}

func NewUnit() *Unit {
	return &Unit{cc: newCompileContext()}
}

// Add compiles root after the code already in the unit. On error the unit is
// left as it was.
func (u *Unit) Add(root ast.Node) (*Program, error) {
	if root == nil {
		return nil, &CompileError{Err: fmt.Errorf("%w: nil tree", ErrUnknownNode)}
	}
	cc := u.cc.clone()
	start := cc.here()
	var err error
	if b, ok := root.(*ast.Block); ok {
		err = cc.block(b)
	} else {
		err = cc.node(root)
	}
	if err != nil {
		return nil, err
	}
	if err := cc.checkCalls(); err != nil {
		return nil, err
	}
	p, err := cc.intoProgram()
	if err != nil {
		return nil, err
	}
	u.cc = cc
	log.Debug().
		Int("start", start).
		Int("instructions", len(p.Code)).
		Int("functions", len(p.Functions)).
		Msg("compiled")
	return p, nil
}

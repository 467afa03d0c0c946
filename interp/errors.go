package interp

import (
	"errors"
	"fmt"

	"github.com/nandy2uy/Nova-language/vm"
)

var (
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrUnboundVariable = errors.New("unbound variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrBadOperand      = errors.New("bad operand")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrCallDepth       = errors.New("call depth exceeded")
)

// Fault is the terminal error of a machine: what went wrong and the
// instruction that was executing.
type Fault struct {
	Err error
	IP  int
	Op  vm.Op
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at %04d (%s): %s", f.IP, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

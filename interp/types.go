package interp

import (
	"fmt"
	"slices"

	"github.com/nandy2uy/Nova-language/vm"
)

type State int

const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Faulted:
		return "Faulted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

type StepResult int

const (
	ContinueStep StepResult = iota
	CallStep
	ReturnStep
	HaltStep
	ErrorStep
)

func (r StepResult) String() string {
	switch r {
	case ContinueStep:
		return "Continue"
	case CallStep:
		return "Call"
	case ReturnStep:
		return "Return"
	case HaltStep:
		return "Halt"
	case ErrorStep:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame is one activation: where to resume on return and the bindings private
// to it.
type Frame struct {
	ReturnIP  int
	Variables map[string]vm.Value
}

func (f *Frame) StoreVar(key string, value vm.Value) {
	if f.Variables == nil {
		f.Variables = make(map[string]vm.Value)
	}
	f.Variables[key] = value
}

func (f *Frame) Lookup(key string) (vm.Value, bool) {
	v, ok := f.Variables[key]
	return v, ok
}

func (f *Frame) Has(key string) bool {
	_, ok := f.Variables[key]
	return ok
}

// Stack is the operand stack, shared by every frame of a machine.
type Stack []vm.Value

func (s *Stack) Push(v vm.Value) {
	*s = append(*s, v)
}

func (s *Stack) Pop() (vm.Value, error) {
	if len(*s) == 0 {
		return nil, ErrStackUnderflow
	}
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v, nil
}

func (s Stack) Clone() []vm.Value {
	return slices.Clone(s)
}

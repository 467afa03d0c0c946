package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/nandy2uy/Nova-language/vm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Machine executes one Program. It is not safe for concurrent use, but any
// number of machines may share a Program.
type Machine struct {
	prog   *vm.Program
	stack  Stack
	frames []*Frame
	ip     int
	state  State
	fault  error

	out      io.Writer
	maxSteps int
	maxDepth int
	steps    int

	runID  string
	logger zerolog.Logger
}

type Option func(*Machine)

// WithOutput sets where PRINT writes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) {
		m.out = w
	}
}

// WithMaxSteps faults the machine with ErrStepLimit once n instructions have
// run. Zero means no limit.
func WithMaxSteps(n int) Option {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// WithMaxDepth faults a CALL with ErrCallDepth when n calls are already
// active. Zero means no limit.
func WithMaxDepth(n int) Option {
	return func(m *Machine) {
		m.maxDepth = n
	}
}

// WithRunID tags every log line of the run. A random one is used otherwise.
func WithRunID(id string) Option {
	return func(m *Machine) {
		m.runID = id
	}
}

func NewMachine(prog *vm.Program, opts ...Option) *Machine {
	m := &Machine{
		prog:   prog,
		frames: []*Frame{{ReturnIP: prog.Len()}},
		out:    os.Stdout,
	}
	for _, o := range opts {
		o(m)
	}
	if m.runID == "" {
		m.runID = uuid.NewString()
	}
	m.logger = log.With().Str("run", m.runID).Logger()
	return m
}

// Extend lets a halted machine carry on into prog, which must begin with the
// machine's current program. Top-level bindings and the operand stack are
// kept; execution resumes at the first new instruction.
func (m *Machine) Extend(prog *vm.Program) error {
	if m.state != Halted {
		return fmt.Errorf("extend: machine is %s", m.state)
	}
	if !prog.HasPrefix(m.prog) {
		return errors.New("extend: program does not extend the current one")
	}
	m.prog = prog
	m.frames[0].ReturnIP = prog.Len()
	m.state = Running
	return nil
}

// Reset recovers a faulted machine: active calls and the operand stack are
// dropped and the machine halts at the end of its program. Top-level bindings
// made before the fault are kept.
func (m *Machine) Reset() {
	m.frames = m.frames[:1]
	m.stack = nil
	m.ip = m.prog.Len()
	m.state = Halted
	m.fault = nil
}

func (m *Machine) Program() *vm.Program {
	return m.prog
}

func (m *Machine) IP() int {
	return m.ip
}

func (m *Machine) State() State {
	return m.state
}

// Fault returns the error that stopped the machine, or nil.
func (m *Machine) Fault() error {
	return m.fault
}

// Stack returns a copy of the operand stack, bottom first.
func (m *Machine) Stack() []vm.Value {
	return m.stack.Clone()
}

// Depth is the number of frames on the call stack, including the top level.
func (m *Machine) Depth() int {
	return len(m.frames)
}

func (m *Machine) CurrentFrame() *Frame {
	return m.frames[len(m.frames)-1]
}

// Globals is the top-level frame.
func (m *Machine) Globals() *Frame {
	return m.frames[0]
}

// NextOp is the instruction the next Step will execute, if any.
func (m *Machine) NextOp() (vm.Op, bool) {
	op, err := m.prog.GetInstruction(m.ip)
	return op, err == nil
}

// Steps is the number of instructions executed so far.
func (m *Machine) Steps() int {
	return m.steps
}

func (m *Machine) RunID() string {
	return m.runID
}

func (m *Machine) fail(ip int, op vm.Op, err error) error {
	f := &Fault{Err: err, IP: ip, Op: op}
	m.state = Faulted
	m.fault = f
	m.logger.Debug().Int("ip", ip).Str("op", op.String()).Err(err).Msg("faulted")
	return f
}

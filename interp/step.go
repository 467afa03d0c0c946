package interp

import (
	"errors"
	"fmt"

	"github.com/nandy2uy/Nova-language/vm"
)

// Step executes one instruction. A halted machine keeps answering HaltStep
// and a faulted one keeps returning its fault; neither executes anything.
func (m *Machine) Step() (StepResult, error) {
	switch m.state {
	case Halted:
		return HaltStep, nil
	case Faulted:
		return ErrorStep, m.fault
	}
	at := m.ip
	op, err := m.prog.GetInstruction(at)
	if err != nil {
		if errors.Is(err, vm.ErrEndOfCode) && at == m.prog.Len() && len(m.frames) == 1 {
			m.state = Halted
			m.logger.Trace().Int("ip", at).Msg("Step: end of code")
			return HaltStep, nil
		}
		return ErrorStep, m.fail(at, op, err)
	}
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return ErrorStep, m.fail(at, op, fmt.Errorf("%w: %d", ErrStepLimit, m.maxSteps))
	}

	m.logger.Trace().
		Str("opcode", op.Code.String()).
		Int("ip", at).
		Stringer("arg", op.Arg).
		Int("stack_depth", len(m.stack)).
		Int("depth", len(m.frames)).
		Msg("Step: executing instruction")

	m.steps++
	m.ip++
	res, err := m.exec(op)
	if err != nil {
		return ErrorStep, m.fail(at, op, err)
	}
	return res, nil
}

func (m *Machine) exec(op vm.Op) (StepResult, error) {
	switch op.Code {
	case vm.PUSH:
		v, ok := op.Arg.(vm.Value)
		if !ok {
			return ErrorStep, badOperand(op)
		}
		m.stack.Push(v)
	case vm.POP:
		_, err := m.stack.Pop()
		if err != nil {
			return ErrorStep, err
		}
	case vm.LOAD:
		name, err := nameArg(op)
		if err != nil {
			return ErrorStep, err
		}
		v, ok := m.CurrentFrame().Lookup(name)
		if !ok {
			return ErrorStep, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
		}
		m.stack.Push(v)
	case vm.STORE:
		name, err := nameArg(op)
		if err != nil {
			return ErrorStep, err
		}
		v, err := m.stack.Pop()
		if err != nil {
			return ErrorStep, err
		}
		m.CurrentFrame().StoreVar(name, v)
		m.logger.Trace().Str("variable", name).Str("value", FormatValue(v)).Msg("  STORE")
	case vm.ADD, vm.SUB, vm.MUL, vm.DIV:
		b, a, err := m.popPair()
		if err != nil {
			return ErrorStep, err
		}
		v, err := arith(op.Code, a, b)
		if err != nil {
			return ErrorStep, err
		}
		m.stack.Push(v)
	case vm.COMPARE:
		sym, ok := op.Arg.(vm.OperatorArg)
		if !ok {
			return ErrorStep, badOperand(op)
		}
		b, a, err := m.popPair()
		if err != nil {
			return ErrorStep, err
		}
		v, err := compare(sym, a, b)
		if err != nil {
			return ErrorStep, err
		}
		m.stack.Push(v)
	case vm.JUMP:
		t, err := m.target(op)
		if err != nil {
			return ErrorStep, err
		}
		m.ip = t
	case vm.JUMP_IF_FALSE:
		t, err := m.target(op)
		if err != nil {
			return ErrorStep, err
		}
		c, err := m.stack.Pop()
		if err != nil {
			return ErrorStep, err
		}
		if !c.AsBool() {
			m.ip = t
		}
	case vm.PRINT:
		v, err := m.stack.Pop()
		if err != nil {
			return ErrorStep, err
		}
		_, err = fmt.Fprintln(m.out, v.String())
		if err != nil {
			return ErrorStep, fmt.Errorf("print: %w", err)
		}
	case vm.CALL:
		return m.call(op)
	case vm.RETURN:
		return m.ret()
	default:
		return ErrorStep, fmt.Errorf("%w: %s", ErrUnknownOpcode, op.Code)
	}
	return ContinueStep, nil
}

// popPair pops the right operand, then the left.
func (m *Machine) popPair() (b, a vm.Value, err error) {
	b, err = m.stack.Pop()
	if err != nil {
		return nil, nil, err
	}
	a, err = m.stack.Pop()
	if err != nil {
		return nil, nil, err
	}
	return b, a, nil
}

func (m *Machine) target(op vm.Op) (int, error) {
	t, ok := op.Arg.(vm.TargetArg)
	if !ok || int(t) < 0 || int(t) > m.prog.Len() {
		return 0, badOperand(op)
	}
	return int(t), nil
}

func nameArg(op vm.Op) (string, error) {
	n, ok := op.Arg.(vm.NameArg)
	if !ok {
		return "", badOperand(op)
	}
	return string(n), nil
}

func badOperand(op vm.Op) error {
	return fmt.Errorf("%w: %s cannot take %v", ErrBadOperand, op.Code, op.Arg)
}

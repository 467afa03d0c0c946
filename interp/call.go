package interp

import (
	"fmt"

	"github.com/nandy2uy/Nova-language/vm"
)

// call enters the function named by op. Arguments are on the stack in
// call-site order, so they are popped last parameter first.
func (m *Machine) call(op vm.Op) (StepResult, error) {
	name, err := nameArg(op)
	if err != nil {
		return ErrorStep, err
	}
	fn, ok := m.prog.Resolve(name)
	if !ok {
		return ErrorStep, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if m.maxDepth > 0 && len(m.frames)-1 >= m.maxDepth {
		return ErrorStep, fmt.Errorf("%w: %d active calls", ErrCallDepth, len(m.frames)-1)
	}
	frame := &Frame{ReturnIP: m.ip}
	for i := len(fn.Params) - 1; i >= 0; i-- {
		v, err := m.stack.Pop()
		if err != nil {
			return ErrorStep, fmt.Errorf("binding %s of %s: %w", fn.Params[i], name, err)
		}
		frame.StoreVar(fn.Params[i], v)
	}
	m.frames = append(m.frames, frame)
	m.ip = fn.Start
	m.logger.Trace().Str("function", name).Int("depth", len(m.frames)).Msg("  CALL")
	return CallStep, nil
}

// ret leaves the current frame, handing the popped value back to the caller.
// Returning from the top level halts the machine.
func (m *Machine) ret() (StepResult, error) {
	v, err := m.stack.Pop()
	if err != nil {
		return ErrorStep, err
	}
	f := m.CurrentFrame()
	m.ip = f.ReturnIP
	m.stack.Push(v)
	if len(m.frames) == 1 {
		m.state = Halted
		m.logger.Trace().Msg("  RETURN from top level")
		return HaltStep, nil
	}
	m.frames = m.frames[:len(m.frames)-1]
	m.logger.Trace().Str("value", FormatValue(v)).Int("depth", len(m.frames)).Msg("  RETURN")
	return ReturnStep, nil
}

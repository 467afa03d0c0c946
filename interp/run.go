package interp

import (
	"context"

	"github.com/nandy2uy/Nova-language/vm"
)

// Run steps the machine until it halts or faults. ctx is checked every
// checkInterval steps; cancellation faults the machine with ctx.Err().
func (m *Machine) Run(ctx context.Context) error {
	m.logger.Debug().Int("ip", m.ip).Int("instructions", m.prog.Len()).Msg("run started")
	for i := 0; ; i++ {
		if i%checkInterval == 0 && m.state == Running {
			if err := ctx.Err(); err != nil {
				op, _ := m.NextOp()
				return m.fail(m.ip, op, err)
			}
		}
		res, err := m.Step()
		if err != nil {
			return err
		}
		if res == HaltStep {
			m.logger.Debug().Int("steps", m.steps).Msg("run halted")
			return nil
		}
	}
}

const checkInterval = 256

// RunProgram runs prog on a fresh machine and returns the machine for
// inspection alongside any fault.
func RunProgram(ctx context.Context, prog *vm.Program, opts ...Option) (*Machine, error) {
	m := NewMachine(prog, opts...)
	err := m.Run(ctx)
	return m, err
}

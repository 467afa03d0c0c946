package interp

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nandy2uy/Nova-language/vm"
)

// FormatValue renders a value for display, quoting strings so they can be
// told apart from other kinds.
func FormatValue(v vm.Value) string {
	switch val := v.(type) {
	case vm.StrValue:
		return fmt.Sprintf("%q", string(val))
	case nil:
		return "<nil>"
	default:
		return val.String()
	}
}

// TypeName is the Nova name of a value's kind.
func TypeName(v vm.Value) string {
	switch v.(type) {
	case vm.IntValue:
		return "int"
	case vm.StrValue:
		return "str"
	case vm.BoolValue:
		return "bool"
	case vm.NoneValue:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// PrettyPrint describes the machine: its state, the next instruction, the
// operand stack and every frame's bindings.
func (m *Machine) PrettyPrint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s  IP: %04d  Steps: %d\n", m.state, m.ip, m.steps)
	if op, ok := m.NextOp(); ok && m.state == Running {
		fmt.Fprintf(&b, "Next: %s\n", op)
	}
	if m.fault != nil {
		fmt.Fprintf(&b, "Fault: %s\n", m.fault)
	}
	vals := make([]string, len(m.stack))
	for i, v := range m.stack {
		vals[i] = FormatValue(v)
	}
	fmt.Fprintf(&b, "Stack: [%s]\n", strings.Join(vals, ", "))
	for i, f := range m.frames {
		if i == 0 {
			b.WriteString("Globals:\n")
		} else {
			fmt.Fprintf(&b, "Frame %d (returns to %04d):\n", i, f.ReturnIP)
		}
		if len(f.Variables) == 0 {
			b.WriteString("  (none)\n")
			continue
		}
		for _, k := range slices.Sorted(maps.Keys(f.Variables)) {
			fmt.Fprintf(&b, "  %s = %s\n", k, FormatValue(f.Variables[k]))
		}
	}
	return b.String()
}

package interp

import (
	"fmt"

	"github.com/nandy2uy/Nova-language/vm"
)

// arith applies ADD, SUB, MUL or DIV. Only ADD accepts strings, and then only
// two of them. Division truncates toward zero.
func arith(code vm.Opcode, a, b vm.Value) (vm.Value, error) {
	if code == vm.ADD {
		if as, ok := a.(vm.StrValue); ok {
			if bs, ok := b.(vm.StrValue); ok {
				return as + bs, nil
			}
		}
	}
	ai, aok := a.(vm.IntValue)
	bi, bok := b.(vm.IntValue)
	if !aok || !bok {
		return nil, fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, TypeName(a), code, TypeName(b))
	}
	switch code {
	case vm.ADD:
		return ai + bi, nil
	case vm.SUB:
		return ai - bi, nil
	case vm.MUL:
		return ai * bi, nil
	case vm.DIV:
		if bi == 0 {
			return nil, ErrDivisionByZero
		}
		return ai / bi, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, code)
}

// compare evaluates a COMPARE. Equality is defined between any two values and
// is false across kinds; ordering needs two ints or two strings.
func compare(sym vm.OperatorArg, a, b vm.Value) (vm.Value, error) {
	c, ok := a.Cmp(b)
	switch sym {
	case "==":
		return vm.BoolValue(ok && c == 0), nil
	case "!=":
		return vm.BoolValue(!ok || c != 0), nil
	case "<", ">":
		if !ok || !ordered(a) {
			return nil, fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, TypeName(a), sym, TypeName(b))
		}
		if sym == "<" {
			return vm.BoolValue(c < 0), nil
		}
		return vm.BoolValue(c > 0), nil
	}
	return nil, fmt.Errorf("%w: comparison %q", ErrBadOperand, string(sym))
}

func ordered(v vm.Value) bool {
	switch v.(type) {
	case vm.IntValue, vm.StrValue:
		return true
	}
	return false
}

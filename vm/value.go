package vm

import (
	"cmp"
	"strconv"
)

// Operand is the argument carried by an Op. Every Value is an Operand; names,
// operator symbols and jump targets are operands that never reach the stack.
type Operand interface {
	isOperand()
	String() string
}

// Value is a dynamically typed Nova scalar.
type Value interface {
	Operand
	isValue()
	AsBool() bool
	// Cmp orders v against other. ok is false when the two are not
	// comparable (different kinds, or kinds without an order).
	Cmp(other Value) (c int, ok bool)
}

type BoolValue bool

var (
	BoolTrue  = BoolValue(true)
	BoolFalse = BoolValue(false)
)

func (BoolValue) isOperand() {}
func (BoolValue) isValue()   {}

func (b BoolValue) AsBool() bool {
	return bool(b)
}

func (b BoolValue) String() string {
	return strconv.FormatBool(bool(b))
}

func (b BoolValue) Cmp(other Value) (int, bool) {
	o, ok := other.(BoolValue)
	if !ok {
		return 0, false
	}
	if b == o {
		return 0, true
	}
	// Only equality is meaningful for booleans.
	return 1, true
}

type StrValue string

func (StrValue) isOperand() {}
func (StrValue) isValue()   {}

func (s StrValue) AsBool() bool {
	return s != ""
}

func (s StrValue) String() string {
	return string(s)
}

func (s StrValue) Cmp(other Value) (int, bool) {
	o, ok := other.(StrValue)
	if !ok {
		return 0, false
	}
	return cmp.Compare(s, o), true
}

type IntValue int

func (IntValue) isOperand() {}
func (IntValue) isValue()   {}

func (i IntValue) AsBool() bool {
	return i != 0
}

func (i IntValue) String() string {
	return strconv.Itoa(int(i))
}

func (i IntValue) Cmp(other Value) (int, bool) {
	o, ok := other.(IntValue)
	if !ok {
		return 0, false
	}
	return cmp.Compare(i, o), true
}

// NoneValue is null: what a function returns when it falls off its body.
type NoneValue struct{}

var None = NoneValue{}

func (NoneValue) isOperand() {}
func (NoneValue) isValue()   {}

func (NoneValue) AsBool() bool {
	return false
}

func (NoneValue) String() string {
	return "null"
}

func (NoneValue) Cmp(other Value) (int, bool) {
	if _, ok := other.(NoneValue); ok {
		return 0, true
	}
	return 0, false
}

// NameArg names a variable (LOAD, STORE) or a function (CALL).
type NameArg string

func (NameArg) isOperand() {}

func (n NameArg) String() string {
	return string(n)
}

// OperatorArg is the comparison symbol carried by COMPARE.
type OperatorArg string

func (OperatorArg) isOperand() {}

func (o OperatorArg) String() string {
	return string(o)
}

// TargetArg is an absolute instruction index carried by jumps.
type TargetArg int

// placeholder marks a jump whose target has not been backpatched yet.
const placeholder = TargetArg(-1)

func (TargetArg) isOperand() {}

func (t TargetArg) String() string {
	if t == placeholder {
		return "<unpatched>"
	}
	return "@" + strconv.Itoa(int(t))
}

package vm

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/shamaton/msgpack/v2"
)

// Operand kinds on the wire. Zero means the op carries no operand.
const (
	kindNone uint8 = iota
	kindInt
	kindStr
	kindBool
	kindNull
	kindName
	kindOperator
	kindTarget
)

type wireOp struct {
	Code uint32
	Kind uint8
	Int  int64
	Str  string
	Bool bool
}

type wireFunction struct {
	Name   string
	Start  int
	Params []string
}

type wireProgram struct {
	Code      []wireOp
	Functions []wireFunction
}

func (p *Program) Serialize(w io.Writer) error {
	wp := wireProgram{
		Code: make([]wireOp, len(p.Code)),
	}
	for i, op := range p.Code {
		wo, err := encodeOp(op)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		wp.Code[i] = wo
	}
	// Sorted so equal programs encode to equal bytes.
	for _, name := range slices.Sorted(maps.Keys(p.Functions)) {
		fn := p.Functions[name]
		wp.Functions = append(wp.Functions, wireFunction{Name: name, Start: fn.Start, Params: fn.Params})
	}
	return msgpack.MarshalWrite(w, wp)
}

func (p *Program) Deserialize(r io.Reader) error {
	var wp wireProgram
	err := msgpack.UnmarshalRead(r, &wp)
	if err != nil {
		return err
	}
	code := make([]Op, len(wp.Code))
	for i, wo := range wp.Code {
		op, err := decodeOp(wo)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		code[i] = op
	}
	functions := make(FunctionTable, len(wp.Functions))
	for _, fn := range wp.Functions {
		functions[fn.Name] = FunctionInfo{Start: fn.Start, Params: fn.Params}
	}
	decoded := Program{Code: code, Functions: functions}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}

func encodeOp(op Op) (wireOp, error) {
	wo := wireOp{Code: uint32(op.Code)}
	switch a := op.Arg.(type) {
	case nil:
		wo.Kind = kindNone
	case IntValue:
		wo.Kind, wo.Int = kindInt, int64(a)
	case StrValue:
		wo.Kind, wo.Str = kindStr, string(a)
	case BoolValue:
		wo.Kind, wo.Bool = kindBool, bool(a)
	case NoneValue:
		wo.Kind = kindNull
	case NameArg:
		wo.Kind, wo.Str = kindName, string(a)
	case OperatorArg:
		wo.Kind, wo.Str = kindOperator, string(a)
	case TargetArg:
		wo.Kind, wo.Int = kindTarget, int64(a)
	default:
		return wo, fmt.Errorf("unencodable operand %T", op.Arg)
	}
	return wo, nil
}

func decodeOp(wo wireOp) (Op, error) {
	op := Op{Code: Opcode(wo.Code)}
	switch wo.Kind {
	case kindNone:
	case kindInt:
		op.Arg = IntValue(wo.Int)
	case kindStr:
		op.Arg = StrValue(wo.Str)
	case kindBool:
		op.Arg = BoolValue(wo.Bool)
	case kindNull:
		op.Arg = None
	case kindName:
		op.Arg = NameArg(wo.Str)
	case kindOperator:
		op.Arg = OperatorArg(wo.Str)
	case kindTarget:
		op.Arg = TargetArg(wo.Int)
	default:
		return op, fmt.Errorf("unknown operand kind %d", wo.Kind)
	}
	return op, nil
}

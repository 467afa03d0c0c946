package vm

import "fmt"

type Opcode uint32

const (
	// PRE-STACK ... TOS | OP arg | POST-STACK
	PUSH          Opcode = iota + 1 // | x | x
	POP                             // A | | (discards A)
	LOAD                            // | name | A
	STORE                           // A | name | (binds A)
	ADD                             // A B | | A + B
	SUB                             // A B | | A - B
	MUL                             // A B | | A * B
	DIV                             // A B | | A / B
	COMPARE                         // A B | symbol | A symbol B
	JUMP                            // | target | Jumps unconditionally to target
	JUMP_IF_FALSE                   // A | target | Jumps to target if A is falsy
	PRINT                           // A | | (writes A)
	CALL                            // args... | name | Enters name with len(params) args bound
	RETURN                          // A | | Pops the frame, then A
	OpcodeMax
)

// Valid reports whether o is a known opcode.
func (o Opcode) Valid() bool {
	return o >= PUSH && o < OpcodeMax
}

func (o Opcode) String() string {
	switch o {
	case PUSH:
		return "PUSH"
	case POP:
		return "POP"
	case LOAD:
		return "LOAD"
	case STORE:
		return "STORE"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case DIV:
		return "DIV"
	case COMPARE:
		return "COMPARE"
	case JUMP:
		return "JUMP"
	case JUMP_IF_FALSE:
		return "JUMP_IF_FALSE"
	case PRINT:
		return "PRINT"
	case CALL:
		return "CALL"
	case RETURN:
		return "RETURN"
	}
	return fmt.Sprintf("Opcode(%d)", uint32(o))
}

// IsJump reports whether o carries an instruction index operand.
func (o Opcode) IsJump() bool {
	return o == JUMP || o == JUMP_IF_FALSE
}

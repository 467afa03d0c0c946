package vm

import (
	"fmt"
	"slices"

	"github.com/nandy2uy/Nova-language/ast"
)

func (cc *compileContext) block(b *ast.Block) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		err := cc.statement(s)
		if err != nil {
			return err
		}
	}
	return nil
}

func (cc *compileContext) statement(s ast.Node) error {
	err := cc.node(s)
	if err != nil {
		return err
	}
	// Expressions used as statements leave one value behind; drop it so every
	// statement is stack-neutral.
	if ast.IsExpr(s) {
		cc.emit(POP)
	}
	return nil
}

func (cc *compileContext) node(n ast.Node) error {
	switch v := n.(type) {
	case *ast.NumberLit:
		cc.emit(PUSH, IntValue(v.Value))
	case *ast.StringLit:
		cc.emit(PUSH, StrValue(v.Value))
	case *ast.BoolLit:
		cc.emit(PUSH, BoolValue(v.Value))
	case *ast.VarRead:
		cc.emit(LOAD, NameArg(v.Name))
	case *ast.Assign:
		err := cc.node(v.Value)
		if err != nil {
			return err
		}
		cc.emit(STORE, NameArg(v.Name))
	case *ast.BinaryOp:
		err := cc.node(v.Left)
		if err != nil {
			return err
		}
		err = cc.node(v.Right)
		if err != nil {
			return err
		}
		return cc.binOp(v)
	case *ast.Print:
		err := cc.node(v.Value)
		if err != nil {
			return err
		}
		cc.emit(PRINT)
	case *ast.Block:
		return cc.block(v)
	case *ast.If:
		return cc.ifStmt(v)
	case *ast.While:
		return cc.whileStmt(v)
	case *ast.FuncDef:
		return cc.funcDef(v)
	case *ast.Call:
		for _, a := range v.Args {
			err := cc.node(a)
			if err != nil {
				return err
			}
		}
		cc.emit(CALL, NameArg(v.Name))
		cc.calls = append(cc.calls, v)
	case *ast.Return:
		if v.Value == nil {
			cc.emit(PUSH, None)
		} else {
			err := cc.node(v.Value)
			if err != nil {
				return err
			}
		}
		cc.emit(RETURN)
	default:
		return &CompileError{Node: n, Err: fmt.Errorf("%w: %T", ErrUnknownNode, n)}
	}
	return nil
}

func (cc *compileContext) binOp(n *ast.BinaryOp) error {
	switch n.Op {
	case "+":
		cc.emit(ADD)
	case "-":
		cc.emit(SUB)
	case "*":
		cc.emit(MUL)
	case "/":
		cc.emit(DIV)
	case "==", "!=", "<", ">":
		cc.emit(COMPARE, OperatorArg(n.Op))
	default:
		return &CompileError{Node: n, Err: fmt.Errorf("%w %q", ErrUnknownOperator, n.Op)}
	}
	return nil
}

// if cond then else compiles to:
//
//	  <cond>
//	  JUMP_IF_FALSE else
//	  <then>
//	  JUMP end          ; only with an else branch
//	else:
//	  <else>
//	end:
func (cc *compileContext) ifStmt(n *ast.If) error {
	err := cc.node(n.Cond)
	if err != nil {
		return err
	}
	falseJump := cc.emitJump(JUMP_IF_FALSE)
	err = cc.block(n.Then)
	if err != nil {
		return err
	}
	if n.Else == nil {
		cc.patchJump(falseJump)
		return nil
	}
	endJump := cc.emitJump(JUMP)
	cc.patchJump(falseJump)
	err = cc.block(n.Else)
	if err != nil {
		return err
	}
	cc.patchJump(endJump)
	return nil
}

// while cond body compiles to:
//
//	head:
//	  <cond>
//	  JUMP_IF_FALSE end  ; consumes the condition
//	  <body>
//	  JUMP head
//	end:
func (cc *compileContext) whileStmt(n *ast.While) error {
	head := cc.here()
	err := cc.node(n.Cond)
	if err != nil {
		return err
	}
	exitJump := cc.emitJump(JUMP_IF_FALSE)
	err = cc.block(n.Body)
	if err != nil {
		return err
	}
	cc.emit(JUMP, TargetArg(head))
	cc.patchJump(exitJump)
	return nil
}

// A definition is compiled in place behind a guard jump so straight-line
// execution skips the body:
//
//	  JUMP after
//	start:
//	  <body>
//	  PUSH null
//	  RETURN
//	after:
func (cc *compileContext) funcDef(n *ast.FuncDef) error {
	guard := cc.emitJump(JUMP)
	// Registered before the body so the body can call itself.
	cc.functions[n.Name] = FunctionInfo{
		Start:  cc.here(),
		Params: slices.Clone(n.Params),
	}
	err := cc.block(n.Body)
	if err != nil {
		return err
	}
	cc.emit(PUSH, None)
	cc.emit(RETURN)
	cc.patchJump(guard)
	return nil
}

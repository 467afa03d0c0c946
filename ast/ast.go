// Package ast defines the closed set of Nova syntax tree nodes.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is implemented by exactly the node kinds in this package.
type Node interface {
	isNode()
	String() string
}

type NumberLit struct {
	Value int
}

type StringLit struct {
	Value string
}

type BoolLit struct {
	Value bool
}

// VarRead loads a variable from the current frame.
type VarRead struct {
	Name string
}

// Assign binds the result of Value to Name in the current frame.
type Assign struct {
	Name  string
	Value Node
}

// BinaryOp applies Op to Left and Right. Op is one of + - * / == != < >.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

type Print struct {
	Value Node
}

// Block is a statement sequence.
type Block struct {
	Stmts []Node
}

// If runs Then when Cond is truthy, otherwise Else (which may be nil).
type If struct {
	Cond Node
	Then *Block
	Else *Block
}

type While struct {
	Cond Node
	Body *Block
}

type FuncDef struct {
	Name   string
	Params []string
	Body   *Block
}

type Call struct {
	Name string
	Args []Node
}

type Return struct {
	Value Node
}

func (*NumberLit) isNode() {}
func (*StringLit) isNode() {}
func (*BoolLit) isNode()   {}
func (*VarRead) isNode()   {}
func (*Assign) isNode()    {}
func (*BinaryOp) isNode()  {}
func (*Print) isNode()     {}
func (*Block) isNode()     {}
func (*If) isNode()        {}
func (*While) isNode()     {}
func (*FuncDef) isNode()   {}
func (*Call) isNode()      {}
func (*Return) isNode()    {}

// IsExpr reports whether n produces a value when evaluated.
func IsExpr(n Node) bool {
	switch n.(type) {
	case *NumberLit, *StringLit, *BoolLit, *VarRead, *BinaryOp, *Call:
		return true
	}
	return false
}

func (n *NumberLit) String() string { return strconv.Itoa(n.Value) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *VarRead) String() string   { return n.Name }

func (n *Assign) String() string {
	return fmt.Sprintf("let %s = %s", n.Name, n.Value)
}

func (n *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

func (n *Print) String() string {
	return fmt.Sprintf("print %s", n.Value)
}

func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (n *If) String() string {
	if n.Else == nil {
		return fmt.Sprintf("if %s %s", n.Cond, n.Then)
	}
	return fmt.Sprintf("if %s %s else %s", n.Cond, n.Then, n.Else)
}

func (n *While) String() string {
	return fmt.Sprintf("while %s %s", n.Cond, n.Body)
}

func (n *FuncDef) String() string {
	return fmt.Sprintf("fun %s(%s) %s", n.Name, strings.Join(n.Params, ", "), n.Body)
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}

func (n *Return) String() string {
	if n.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", n.Value)
}

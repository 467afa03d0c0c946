package parse

import (
	"fmt"

	"github.com/nandy2uy/Nova-language/ast"
	"go.starlark.net/syntax"
)

// ParseStarlark parses Starlark source and lowers the subset Nova can express
// (assignment, def, if/elif/else, while, return, print(), calls, integer and
// string literals, True/False and + - * / == != < >) into a Nova block. src is
// anything syntax.FileOptions.Parse accepts.
func ParseStarlark(filename string, src any) (*ast.Block, error) {
	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
	f, err := opts.Parse(filename, src, 0)
	if err != nil {
		return nil, err
	}
	l := &lowerer{filename: filename}
	return l.stmts(f.Stmts)
}

type lowerer struct {
	filename string
}

func (l *lowerer) errorf(n syntax.Node, format string, args ...any) error {
	start, _ := n.Span()
	return &SyntaxError{
		Filename: l.filename,
		Pos:      Position{Line: int(start.Line), Col: int(start.Col)},
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (l *lowerer) stmts(stmts []syntax.Stmt) (*ast.Block, error) {
	b := &ast.Block{}
	for _, s := range stmts {
		n, err := l.statement(s)
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, n)
	}
	return b, nil
}

func (l *lowerer) statement(s syntax.Stmt) (ast.Node, error) {
	switch v := s.(type) {
	case *syntax.AssignStmt:
		return l.assign(v)
	case *syntax.DefStmt:
		var params []string
		for _, p := range v.Params {
			id, ok := p.(*syntax.Ident)
			if !ok {
				return nil, l.errorf(p, "only plain parameters are supported")
			}
			params = append(params, id.Name)
		}
		body, err := l.stmts(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FuncDef{Name: v.Name.Name, Params: params, Body: body}, nil
	case *syntax.ExprStmt:
		if call, ok := v.X.(*syntax.CallExpr); ok {
			if fn, ok := call.Fn.(*syntax.Ident); ok && fn.Name == "print" {
				if len(call.Args) != 1 {
					return nil, l.errorf(call, "print takes exactly one argument")
				}
				arg, err := l.expr(call.Args[0])
				if err != nil {
					return nil, err
				}
				return &ast.Print{Value: arg}, nil
			}
		}
		return l.expr(v.X)
	case *syntax.IfStmt:
		cond, err := l.expr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.stmts(v.True)
		if err != nil {
			return nil, err
		}
		n := &ast.If{Cond: cond, Then: then}
		if len(v.False) != 0 {
			n.Else, err = l.stmts(v.False)
			if err != nil {
				return nil, err
			}
		}
		return n, nil
	case *syntax.WhileStmt:
		cond, err := l.expr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.stmts(v.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body}, nil
	case *syntax.ReturnStmt:
		if v.Result == nil {
			return &ast.Return{}, nil
		}
		val, err := l.expr(v.Result)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: val}, nil
	}
	return nil, l.errorf(s, "unsupported statement %T", s)
}

func (l *lowerer) assign(v *syntax.AssignStmt) (ast.Node, error) {
	id, ok := v.LHS.(*syntax.Ident)
	if !ok {
		return nil, l.errorf(v.LHS, "can only assign to a name")
	}
	rhs, err := l.expr(v.RHS)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case syntax.EQ:
		return &ast.Assign{Name: id.Name, Value: rhs}, nil
	case syntax.PLUS_EQ, syntax.MINUS_EQ, syntax.STAR_EQ, syntax.SLASH_EQ:
		op, _ := binarySymbol(v.Op - (syntax.PLUS_EQ - syntax.PLUS))
		return &ast.Assign{
			Name:  id.Name,
			Value: &ast.BinaryOp{Op: op, Left: &ast.VarRead{Name: id.Name}, Right: rhs},
		}, nil
	}
	return nil, l.errorf(v, "unsupported assignment %s", v.Op)
}

func binarySymbol(t syntax.Token) (string, bool) {
	switch t {
	case syntax.PLUS:
		return "+", true
	case syntax.MINUS:
		return "-", true
	case syntax.STAR:
		return "*", true
	case syntax.SLASH:
		return "/", true
	case syntax.EQL:
		return "==", true
	case syntax.NEQ:
		return "!=", true
	case syntax.LT:
		return "<", true
	case syntax.GT:
		return ">", true
	}
	return "", false
}

func (l *lowerer) expr(e syntax.Expr) (ast.Node, error) {
	switch v := e.(type) {
	case *syntax.BinaryExpr:
		op, ok := binarySymbol(v.Op)
		if !ok {
			return nil, l.errorf(v, "unsupported operator %s", v.Op)
		}
		left, err := l.expr(v.X)
		if err != nil {
			return nil, err
		}
		right, err := l.expr(v.Y)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: op, Left: left, Right: right}, nil
	case *syntax.CallExpr:
		fn, ok := v.Fn.(*syntax.Ident)
		if !ok {
			return nil, l.errorf(v.Fn, "can only call functions by name")
		}
		call := &ast.Call{Name: fn.Name}
		for _, a := range v.Args {
			if b, ok := a.(*syntax.BinaryExpr); ok && b.Op == syntax.EQ {
				return nil, l.errorf(a, "keyword arguments are unsupported")
			}
			arg, err := l.expr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil
	case *syntax.Ident:
		switch v.Name {
		case "True":
			return &ast.BoolLit{Value: true}, nil
		case "False":
			return &ast.BoolLit{Value: false}, nil
		}
		return &ast.VarRead{Name: v.Name}, nil
	case *syntax.Literal:
		switch lit := v.Value.(type) {
		case int64:
			return &ast.NumberLit{Value: int(lit)}, nil
		case string:
			if v.Token != syntax.STRING {
				return nil, l.errorf(v, "unsupported literal %s", v.Raw)
			}
			return &ast.StringLit{Value: lit}, nil
		}
		return nil, l.errorf(v, "unsupported literal %s", v.Raw)
	case *syntax.ParenExpr:
		return l.expr(v.X)
	case *syntax.UnaryExpr:
		x, err := l.expr(v.X)
		if err != nil {
			return nil, err
		}
		switch v.Op {
		case syntax.MINUS:
			// -x lowers to 0 - x.
			return &ast.BinaryOp{Op: "-", Left: &ast.NumberLit{Value: 0}, Right: x}, nil
		case syntax.PLUS:
			return x, nil
		}
		return nil, l.errorf(v, "unsupported unary operator %s", v.Op)
	}
	return nil, l.errorf(e, "unsupported expression %T", e)
}

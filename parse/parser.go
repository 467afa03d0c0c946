package parse

import (
	"fmt"

	"github.com/nandy2uy/Nova-language/ast"
)

type parser struct {
	toks []Token
	pos  int
}

// Parse turns Nova source into a statement block.
func Parse(src string) (*ast.Block, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	b, err := p.statements()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); t.Kind != EOF {
		return nil, p.errorf(t, "unexpected %s", t)
	}
	return b, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(word string) bool {
	t := p.cur()
	return t.Kind == KEYWORD && t.Text == word
}

func (p *parser) isOperator(ops ...string) bool {
	t := p.cur()
	if t.Kind != OPERATOR {
		return false
	}
	for _, op := range ops {
		if t.Text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, p.errorf(t, "expected %s, found %s", what, t)
	}
	return p.advance(), nil
}

func (p *parser) errorf(t Token, format string, args ...any) error {
	return &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) statements() (*ast.Block, error) {
	b := &ast.Block{}
	for k := p.cur().Kind; k != EOF && k != RBRACE; k = p.cur().Kind {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	return b, nil
}

func (p *parser) block() (*ast.Block, error) {
	_, err := p.expect(LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	b, err := p.statements()
	if err != nil {
		return nil, err
	}
	_, err = p.expect(RBRACE, "'}'")
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) statement() (ast.Node, error) {
	if p.cur().Kind != KEYWORD {
		return p.expression()
	}
	switch p.cur().Text {
	case "let":
		return p.letStmt()
	case "print":
		p.advance()
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Print{Value: v}, nil
	case "if":
		return p.ifStmt()
	case "while":
		p.advance()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body}, nil
	case "fun":
		return p.funDef()
	case "return":
		p.advance()
		if k := p.cur().Kind; k == RBRACE || k == EOF {
			return &ast.Return{}, nil
		}
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: v}, nil
	}
	return p.expression()
}

func (p *parser) letStmt() (ast.Node, error) {
	p.advance()
	name, err := p.expect(IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if !p.isOperator("=") {
		return nil, p.errorf(p.cur(), "expected '=', found %s", p.cur())
	}
	p.advance()
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name.Text, Value: v}, nil
}

func (p *parser) ifStmt() (ast.Node, error) {
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	n := &ast.If{Cond: cond, Then: then}
	if !p.isKeyword("else") {
		return n, nil
	}
	p.advance()
	if p.isKeyword("if") {
		nested, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		n.Else = &ast.Block{Stmts: []ast.Node{nested}}
		return n, nil
	}
	n.Else, err = p.block()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) funDef() (ast.Node, error) {
	p.advance()
	name, err := p.expect(IDENT, "function name")
	if err != nil {
		return nil, err
	}
	_, err = p.expect(LPAREN, "'('")
	if err != nil {
		return nil, err
	}
	var params []string
	if p.cur().Kind != RPAREN {
		for {
			param, err := p.expect(IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Text)
			if p.cur().Kind != COMMA {
				break
			}
			p.advance()
		}
	}
	_, err = p.expect(RPAREN, "')' or ','")
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: name.Text, Params: params, Body: body}, nil
}

// Precedence, loosest first: comparison, additive, multiplicative.
func (p *parser) expression() (ast.Node, error) {
	return p.binary(0)
}

var precedence = [][]string{
	{"==", "!=", "<", ">"},
	{"+", "-"},
	{"*", "/"},
}

func (p *parser) binary(level int) (ast.Node, error) {
	if level == len(precedence) {
		return p.factor()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.isOperator(precedence[level]...) {
		op := p.advance()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) factor() (ast.Node, error) {
	t := p.cur()
	switch {
	case t.Kind == INT:
		p.advance()
		return &ast.NumberLit{Value: t.Int}, nil
	case t.Kind == STRING:
		p.advance()
		return &ast.StringLit{Value: t.Text}, nil
	case t.Kind == KEYWORD && (t.Text == "true" || t.Text == "false"):
		p.advance()
		return &ast.BoolLit{Value: t.Text == "true"}, nil
	case t.Kind == LPAREN:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(RPAREN, "')'")
		if err != nil {
			return nil, err
		}
		return e, nil
	case t.Kind == IDENT:
		p.advance()
		if p.cur().Kind != LPAREN {
			return &ast.VarRead{Name: t.Text}, nil
		}
		p.advance()
		call := &ast.Call{Name: t.Text}
		if p.cur().Kind != RPAREN {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if p.cur().Kind != COMMA {
					break
				}
				p.advance()
			}
		}
		_, err := p.expect(RPAREN, "')' or ','")
		if err != nil {
			return nil, err
		}
		return call, nil
	}
	return nil, p.errorf(t, "invalid syntax at %s", t)
}

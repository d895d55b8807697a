package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/syntax"
)

// The REPL only ever evaluates compile-time arithmetic, so it has no
// need for the full surface grammar (internal/syntax's Tree is the
// external parser's contract, not something this command implements).
// This is a small recursive-descent parser over +, -, *, /, unary -,
// parens, and integer literals, building core IR directly so the
// result runs through the same internal/comptime.Interpreter the
// driver uses.

type exprToken struct {
	kind exprTokenKind
	text string
}

type exprTokenKind int

const (
	tokNum exprTokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

func tokenizeExpr(s string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(s) {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '+':
			toks = append(toks, exprToken{tokPlus, "+"})
			i++
		case c == '-':
			toks = append(toks, exprToken{tokMinus, "-"})
			i++
		case c == '*':
			toks = append(toks, exprToken{tokStar, "*"})
			i++
		case c == '/':
			toks = append(toks, exprToken{tokSlash, "/"})
			i++
		case c == '(':
			toks = append(toks, exprToken{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, exprToken{tokRParen, ")"})
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(s) && unicode.IsDigit(rune(s[j])) {
				j++
			}
			toks = append(toks, exprToken{tokNum, s[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, exprToken{tokEOF, ""})
	return toks, nil
}

// exprParser builds core IR for a tokenized arithmetic expression
// directly into a fresh core.Bodies, mirroring the shape the real
// lowerer produces for a Binary/Lit expression (internal/lower
// .lowerBinary/lowerIntLit) without going through a Lowerer, since
// there is no syntax.Tree to lower here.
type exprParser struct {
	toks []exprToken
	pos  int
	b    *core.Bodies
}

func parseAndLowerExpr(s string) (*core.Bodies, core.ExprID, error) {
	toks, err := tokenizeExpr(s)
	if err != nil {
		return nil, 0, err
	}
	p := &exprParser{toks: toks, b: core.NewBodies()}
	id, err := p.parseExpr(0)
	if err != nil {
		return nil, 0, err
	}
	if p.peek().kind != tokEOF {
		return nil, 0, fmt.Errorf("unexpected trailing input near %q", p.peek().text)
	}
	return p.b, id, nil
}

// comptimeForExpr wraps a bare expression in the Block/Comptime shape
// internal/comptime.Interpreter expects (mirroring how internal/lower
// .lowerComptime wraps a surface `comptime { ... }` body).
func comptimeForExpr(b *core.Bodies, exprID core.ExprID) core.ComptimeID {
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &exprID}})
	return b.AddComptime(core.Comptime{Body: block})
}

func (p *exprParser) peek() exprToken { return p.toks[p.pos] }

func (p *exprParser) advance() exprToken {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

var binPrec = map[exprTokenKind]int{tokPlus: 1, tokMinus: 1, tokStar: 2, tokSlash: 2}
var binOp = map[exprTokenKind]syntax.BinaryOp{tokPlus: syntax.OpAdd, tokMinus: syntax.OpSub, tokStar: syntax.OpMul, tokSlash: syntax.OpDiv}

func (p *exprParser) parseExpr(minPrec int) (core.ExprID, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		prec, ok := binPrec[op.kind]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return 0, err
		}
		lhs = p.b.AddExpr(core.Node{Data: core.Binary{Lhs: lhs, Rhs: rhs, Op: binOp[op.kind]}})
	}
}

func (p *exprParser) parseUnary() (core.ExprID, error) {
	if p.peek().kind == tokMinus {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.b.AddExpr(core.Node{Data: core.Unary{Expr: inner, Op: syntax.OpNeg}}), nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (core.ExprID, error) {
	t := p.advance()
	switch t.kind {
	case tokNum:
		v, err := strconv.ParseUint(t.text, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer literal %q: %w", t.text, err)
		}
		return p.b.AddExpr(core.Node{Data: core.Lit{Kind: core.IntLit, IntValue: v}}), nil
	case tokLParen:
		id, err := p.parseExpr(0)
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokRParen {
			return 0, fmt.Errorf("expected ')'")
		}
		p.advance()
		return id, nil
	default:
		return 0, fmt.Errorf("expected a number or '(', got %q", strings.TrimSpace(t.text))
	}
}

package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/syntax"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// utf8Validator checks a string literal's decoded bytes for
// well-formed UTF-8; run through transform.Bytes it returns
// encoding.ErrInvalidUTF8 on the first ill-formed sequence.
var utf8Validator = encoding.UTF8Validator

func (l *Lowerer) lowerIntLit(v *syntax.IntLit) core.ExprID {
	value, ok := parseIntLiteral(v.Text)
	if !ok {
		l.Bag.Errorf(diag.OutOfRangeIntLiteral, diag.PhaseLowering, v.Range(), "integer literal '%s' is out of range for a 64-bit value", v.Text)
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Unresolved{Name: v.Text}})
	}
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.IntLit, IntValue: value}})
}

func (l *Lowerer) lowerFloatLit(v *syntax.FloatLit) core.ExprID {
	f := parseFloatLiteral(v.Text)
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.FloatLit, FloatValue: f}})
}

func (l *Lowerer) lowerCharLit(v *syntax.CharLit) core.ExprID {
	bytes := processEscapes(v.Raw, func(pos int) {
		l.Bag.Warnf(diag.InvalidEscape, diag.PhaseLowering, v.Range(), "invalid escape sequence in char literal")
	})
	switch {
	case len(bytes) == 0:
		l.Bag.Errorf(diag.EmptyCharLiteral, diag.PhaseLowering, v.Range(), "char literal must contain exactly one byte")
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.CharLit, CharValue: 0}})
	case len(bytes) > 1:
		l.Bag.Errorf(diag.TooManyCharsInCharLit, diag.PhaseLowering, v.Range(), "char literal must contain exactly one byte")
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.CharLit, CharValue: 0}})
	case bytes[0] > 127:
		l.Bag.Errorf(diag.NonU8CharLiteral, diag.PhaseLowering, v.Range(), "char literal must be a single ASCII byte")
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.CharLit, CharValue: 0}})
	default:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.CharLit, CharValue: bytes[0]}})
	}
}

func (l *Lowerer) lowerStringLit(v *syntax.StringLit) core.ExprID {
	bytes := processEscapes(v.Raw, func(pos int) {
		l.Bag.Warnf(diag.InvalidEscape, diag.PhaseLowering, v.Range(), "invalid escape sequence in string literal")
	})
	if _, _, err := transform.Bytes(utf8Validator, bytes); err != nil {
		l.Bag.Errorf(diag.InvalidUTF8String, diag.PhaseLowering, v.Range(), "string literal is not valid UTF-8: %v", err)
	}
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.StringLit, StrValue: string(bytes)}})
}

// parseFloatLiteral is a thin wrapper kept separate from int parsing
// since floats never carry the `_`/`eN` int-literal grammar — the
// parser already normalizes float text to what strconv accepts.
func parseFloatLiteral(text string) float64 {
	f, _ := parseFloatStrconv(text)
	return f
}

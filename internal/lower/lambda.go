package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// lowerLambdaValue lowers a function literal into its own Lambda arena
// entry. Lambdas never capture their enclosing scope — each gets a
// fresh funcScope (spec §4.2). `extern` is only legal as the direct
// value of a top-level definition (spec §7 NonGlobalExtern).
func (l *Lowerer) lowerLambdaValue(v *syntax.Lambda) core.ExprID {
	if v.IsExtern && l.lambdaDepth > 0 {
		l.Bag.Errorf(diag.NonGlobalExtern, diag.PhaseLowering, v.Range(), "extern functions may only appear as a top-level definition's value")
	}

	params := make([]core.LambdaParam, len(v.Params))
	outer := l.fs
	l.fs = newFuncScope()
	for i, p := range v.Params {
		params[i] = core.LambdaParam{Type: p.Type}
		if p.Name != "" {
			params[i].Name = intern.Name(l.Names.Intern(p.Name))
			params[i].HasName = true
			l.fs.params[p.Name] = i
		}
	}

	var body core.ExprID
	if !v.IsExtern {
		l.lambdaDepth++
		body, _ = l.lowerBlockInto(v.Body, false)
		l.lambdaDepth--
	}
	l.fs = outer

	id := l.Bodies.AddLambda(core.Lambda{
		Params:   params,
		RetType:  v.RetType,
		Body:     body,
		IsExtern: v.IsExtern,
		Range:    v.Range(),
	})
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.LambdaExpr{Lambda: id}})
}

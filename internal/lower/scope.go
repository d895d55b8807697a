package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/uid"
)

// frame tracks one labellable block or loop while its body is being
// lowered. Its ScopeID is allocated lazily, the first time a
// break/continue actually targets it (spec §3: "assigned a ScopeId
// only if it is actually referenced").
type frame struct {
	name   string // "" if anonymous
	exprID core.ExprID
	isLoop bool
	scope  core.ScopeID
}

// funcScope is the per-lambda (or per-comptime) lowering context: its
// local variable bindings and its stack of enclosing labellable
// frames. Lambdas and comptime bodies clear this entirely on entry —
// no implicit capture (spec §4.2).
type funcScope struct {
	locals map[string]core.LocalID
	params map[string]int
	stack  []*frame
	// outer is the function's own top-level block frame, the target of
	// a bare `return` regardless of how many blocks/loops it is nested
	// inside (spec §3, §9).
	outer *frame
}

func newFuncScope() *funcScope {
	return &funcScope{locals: map[string]core.LocalID{}, params: map[string]int{}}
}

func (fs *funcScope) push(f *frame) {
	fs.stack = append(fs.stack, f)
	if fs.outer == nil {
		fs.outer = f
	}
}

func (fs *funcScope) pop() {
	fs.stack = fs.stack[:len(fs.stack)-1]
}

// findByName searches outward (innermost first) for a frame with the
// given label name.
func (fs *funcScope) findByName(name string) *frame {
	for i := len(fs.stack) - 1; i >= 0; i-- {
		if fs.stack[i].name == name {
			return fs.stack[i]
		}
	}
	return nil
}

// innermostBlock returns the nearest frame of any kind, the target of
// an unlabelled `break` (spec §4.2: "break ... without a label target
// the innermost eligible scope (block for break ...)").
func (fs *funcScope) innermostBlock() *frame {
	if len(fs.stack) == 0 {
		return nil
	}
	return fs.stack[len(fs.stack)-1]
}

// innermostLoop returns the nearest loop-kind frame, the target of an
// unlabelled `continue`.
func (fs *funcScope) innermostLoop() *frame {
	for i := len(fs.stack) - 1; i >= 0; i-- {
		if fs.stack[i].isLoop {
			return fs.stack[i]
		}
	}
	return nil
}

// ensureScope lazily allocates and records f's ScopeID the first time
// it is referenced by a break/continue.
func ensureScope(f *frame, gen *uid.Generator, labels *core.LabelTable) core.ScopeID {
	if f.scope == core.NoScope {
		f.scope = core.ScopeID(gen.Scope())
		labels.Declare(f.scope, f.exprID, f.name)
	}
	return f.scope
}

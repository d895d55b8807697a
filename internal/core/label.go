package core

// LabelTable is the bidirectional map between a ScopeID and the block
// (or while) expression it labels, plus the set of statements that
// target each scope (spec §3 "Scopes and labels", §9).
type LabelTable struct {
	scopeToExpr map[ScopeID]ExprID
	exprToScope map[ExprID]ScopeID
	targets     map[ScopeID][]StmtID
	names       map[ScopeID]string // "" for anonymous
}

// NewLabelTable creates an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{
		scopeToExpr: make(map[ScopeID]ExprID),
		exprToScope: make(map[ExprID]ScopeID),
		targets:     make(map[ScopeID][]StmtID),
		names:       make(map[ScopeID]string),
	}
}

// Declare records that scope labels the block/loop expression e, with
// the given user-provided name ("" if anonymous).
func (lt *LabelTable) Declare(scope ScopeID, e ExprID, name string) {
	lt.scopeToExpr[scope] = e
	lt.exprToScope[e] = scope
	lt.names[scope] = name
}

// ExprFor returns the block/loop expression a scope labels.
func (lt *LabelTable) ExprFor(scope ScopeID) (ExprID, bool) {
	e, ok := lt.scopeToExpr[scope]
	return e, ok
}

// ScopeFor returns the scope id materialized for a block/loop
// expression, if any was (only scopes actually targeted by a
// break/continue are materialized, spec §3).
func (lt *LabelTable) ScopeFor(e ExprID) (ScopeID, bool) {
	s, ok := lt.exprToScope[e]
	return s, ok
}

// NameFor returns the user-provided label name of a scope, or "" for
// an anonymous one.
func (lt *LabelTable) NameFor(scope ScopeID) string { return lt.names[scope] }

// AddTarget records that statement s (a break or continue) targets
// scope.
func (lt *LabelTable) AddTarget(scope ScopeID, s StmtID) {
	lt.targets[scope] = append(lt.targets[scope], s)
}

// TargetsOf returns every break/continue statement that targets scope.
func (lt *LabelTable) TargetsOf(scope ScopeID) []StmtID {
	return lt.targets[scope]
}

// Declared reports whether a scope has a Declare entry — used by the
// property test that every referenced scope id has a label_decls
// entry (spec §8).
func (lt *LabelTable) Declared(scope ScopeID) bool {
	_, ok := lt.scopeToExpr[scope]
	return ok
}

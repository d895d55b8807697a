// Package core implements the lowered body IR (spec §3 "Lowered body
// IR", §4.2): per-file arenas of LocalDef, Assign, Stmt, and Expr
// nodes produced by internal/lower from a parsed syntax.Tree, with
// scope/label tracking and the import/comptime sets a file's bodies
// reference.
package core

// ExprID, StmtID, LocalID, and AssignID index into the four arenas a
// file's Bodies owns (spec §3: "four arenas (LocalDef, Assign, Stmt,
// Expr)").
type ExprID uint32
type StmtID uint32
type LocalID uint32
type AssignID uint32

// LambdaID and ComptimeID identify a lambda or comptime body nested
// inside an expression; the lambda/comptime's own Block is looked up
// through Bodies.Lambdas / Bodies.Comptimes.
type LambdaID uint32
type ComptimeID uint32

// ScopeID is materialized only for a labellable block/loop that is
// actually targeted by a break/continue (spec §3, §9).
type ScopeID uint32

const NoScope ScopeID = 0

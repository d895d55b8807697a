// Package diag implements the diagnostic bus: a kind-tagged,
// severity-tagged collection of compiler diagnostics with source
// ranges (spec §7). No diagnostic aborts compilation by itself; the
// driver decides whether to proceed to code generation once all
// phases have run.
package diag

import (
	"fmt"

	"github.com/capy-lang/capy/internal/syntax"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	// SeverityError means code generation must be skipped.
	SeverityError Severity = iota
	// SeverityWarning is informational and never blocks codegen.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Phase names the producing component, used as the diagnostic code's
// prefix.
type Phase string

const (
	PhaseSyntax     Phase = "SYN" // forwarded from the external parser
	PhaseValidation Phase = "VAL" // forwarded structural checks
	PhaseIndexing   Phase = "IDX"
	PhaseLowering   Phase = "LWR"
	PhaseType       Phase = "TY"
	PhaseComptime   Phase = "CMT"
	PhaseImport     Phase = "IMP"
)

// Kind is one specific diagnostic code within a phase.
type Kind string

// Indexing kinds (§4.1).
const (
	NonBindingAtRoot Kind = "IDX001"
	AlreadyDefined   Kind = "IDX002"
	TyParseError     Kind = "IDX003"
)

// Lowering kinds (§4.2, §7).
const (
	OutOfRangeIntLiteral   Kind = "LWR001"
	UndefinedRef           Kind = "LWR002"
	UndefinedLabel         Kind = "LWR003"
	NonGlobalExtern        Kind = "LWR004"
	ArraySizeNotConst      Kind = "LWR005"
	ArraySizeMismatch      Kind = "LWR006"
	InvalidEscape          Kind = "LWR007"
	TooManyCharsInCharLit  Kind = "LWR008"
	EmptyCharLiteral       Kind = "LWR009"
	NonU8CharLiteral       Kind = "LWR010"
	ModMustBeAlphanumeric  Kind = "LWR011"
	ModDoesNotExist        Kind = "LWR012"
	ModDoesNotContainMod   Kind = "LWR013"
	ImportMustEndInDotCapy Kind = "LWR014"
	ImportDoesNotExist     Kind = "LWR015"
	ImportOutsideCWD       Kind = "LWR016"
	ContinueNonLoop        Kind = "LWR017"
	InvalidUTF8String      Kind = "LWR018"
)

// Type-checking kinds (§4.3, §7).
const (
	TypeMismatch          Kind = "TY001"
	MissingField          Kind = "TY002"
	ArityMismatch         Kind = "TY003"
	NonCallable           Kind = "TY004"
	ImmutabilityViolation Kind = "TY005"
	InvalidCast           Kind = "TY006"
	DerefNonPointer       Kind = "TY007"
	IndexNonArray         Kind = "TY008"
	BreakTypeMismatch     Kind = "TY009"
	CannotUnify           Kind = "TY010"
)

// Comptime kinds (§4.4).
const (
	ComptimeCycle       Kind = "CMT001"
	ComptimeExternCall  Kind = "CMT002"
	ComptimeNotConstant Kind = "CMT003"
)

// Diagnostic is one reported problem, tagged with the phase/kind that
// produced it, its severity, a human message, and the source range it
// concerns.
type Diagnostic struct {
	Kind     Kind
	Phase    Phase
	Severity Severity
	Message  string
	Range    syntax.Range
	Data     map[string]any
}

// Bag accumulates diagnostics in production order (spec §3 Lifecycle:
// "Diagnostics accumulate in a buffer ordered by production"). Callers
// are responsible for walking source in order so that, within one
// file, the bag ends up in source-position order (spec §8).
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Errorf is a convenience for adding an error-severity diagnostic.
func (b *Bag) Errorf(kind Kind, phase Phase, rng syntax.Range, format string, args ...any) {
	b.Add(Diagnostic{
		Kind:     kind,
		Phase:    phase,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Range:    rng,
	})
}

// Warnf is a convenience for adding a warning-severity diagnostic.
func (b *Bag) Warnf(kind Kind, phase Phase, rng syntax.Range, format string, args ...any) {
	b.Add(Diagnostic{
		Kind:     kind,
		Phase:    phase,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Range:    rng,
	})
}

// All returns every diagnostic added so far, in production order.
func (b *Bag) All() []Diagnostic { return b.items }

// HasErrors reports whether any diagnostic in the bag has error
// severity. The driver uses this to decide whether to invoke the
// backend (spec §7: "After all phases run, the driver checks for any
// diagnostic of severity error").
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Extend appends every diagnostic from other into b, preserving order.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Len reports how many diagnostics the bag holds.
func (b *Bag) Len() int { return len(b.items) }

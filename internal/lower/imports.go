package lower

import (
	"errors"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/resolve"
	"github.com/capy-lang/capy/internal/syntax"
)

// lowerImport resolves an import string to a canonical file path and
// records it in Bodies.Imports for the driver's worklist (spec §4.2,
// §4.5, §6). A resolution failure is reported with the specific
// diagnostic kind the failure corresponds to; lowering continues with
// an Unresolved placeholder so the rest of the file still lowers.
func (l *Lowerer) lowerImport(v *syntax.ImportExpr) core.ExprID {
	canon, err := l.resolveImportPath(v)
	if err != nil {
		l.reportImportError(err, v.Range())
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Unresolved{Name: v.Path}})
	}

	file := intern.FileName(l.Files.Intern(canon))
	l.Bodies.AddImport(file)
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Import{File: file}})
}

func (l *Lowerer) resolveImportPath(v *syntax.ImportExpr) (string, error) {
	if l.Resolver == nil {
		return "", resolve.ErrFileMissing
	}
	if v.IsMod {
		return l.Resolver.ResolveMod(v.Path)
	}
	return l.Resolver.ResolveRelative(v.Path, l.ImportingFile)
}

func (l *Lowerer) reportImportError(err error, rng syntax.Range) {
	switch {
	case errors.Is(err, resolve.ErrModNotAlphanumeric):
		l.Bag.Errorf(diag.ModMustBeAlphanumeric, diag.PhaseImport, rng, "mod import name must be alphanumeric")
	case errors.Is(err, resolve.ErrModDirMissing):
		l.Bag.Errorf(diag.ModDoesNotExist, diag.PhaseImport, rng, "mod directory does not exist")
	case errors.Is(err, resolve.ErrModFileMissing):
		l.Bag.Errorf(diag.ModDoesNotContainMod, diag.PhaseImport, rng, "mod directory does not contain mod.capy")
	case errors.Is(err, resolve.ErrMustEndInDotCapy):
		l.Bag.Errorf(diag.ImportMustEndInDotCapy, diag.PhaseImport, rng, "import path must end in .capy")
	case errors.Is(err, resolve.ErrOutsideCWD):
		l.Bag.Errorf(diag.ImportOutsideCWD, diag.PhaseImport, rng, "import resolves outside mod_dir and the current working directory")
	default:
		l.Bag.Errorf(diag.ImportDoesNotExist, diag.PhaseImport, rng, "imported file does not exist")
	}
}

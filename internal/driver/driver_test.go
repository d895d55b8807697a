package driver

import (
	"fmt"
	"testing"

	"github.com/capy-lang/capy/internal/comptime"
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// fakeTreeProvider serves pre-built trees keyed by canonical path,
// standing in for a real lexer/parser the way comptime_test.go's
// newInterp stands in for a real Interpreter caller.
type fakeTreeProvider map[string]*syntax.Tree

func (p fakeTreeProvider) provide(path string) (*syntax.Tree, error) {
	tree, ok := p[path]
	if !ok {
		return nil, fmt.Errorf("no fixture tree for %s", path)
	}
	return tree, nil
}

func ident(name string) *syntax.Ident { return &syntax.Ident{Name: name} }

func intLit(text string) *syntax.IntLit { return &syntax.IntLit{Text: text} }

func def(name string, value syntax.Expr) *syntax.Definition {
	return &syntax.Definition{Name: name, Bind: syntax.BindConst, Value: value}
}

// TestCompileCrossFileImport exercises the full worklist: main.capy
// imports dep.capy, binds it to Dep, and both infers and
// compile-time-evaluates a reference to Dep.BASE through that binding
// (spec §4.3 Path resolution through a File-typed global, §4.5 the
// import worklist).
func TestCompileCrossFileImport(t *testing.T) {
	depTree := &syntax.Tree{
		Path: "/proj/dep.capy",
		Defs: []*syntax.Definition{
			def("BASE", intLit("10")),
		},
	}
	mainTree := &syntax.Tree{
		Path: "/proj/main.capy",
		Defs: []*syntax.Definition{
			def("Dep", &syntax.ImportExpr{Path: "dep.capy"}),
			def("Result", &syntax.ComptimeExpr{
				Body: &syntax.Block{
					Tail: &syntax.Binary{
						Lhs: &syntax.Path{Prev: ident("Dep"), Field: "BASE"},
						Rhs: intLit("5"),
						Op:  syntax.OpAdd,
					},
				},
			}),
		},
	}

	provider := fakeTreeProvider{
		"/proj/main.capy": mainTree,
		"/proj/dep.capy":  depTree,
	}

	cfg := Config{
		CWD:      "/proj",
		Provider: provider.provide,
		Exists: func(path string) bool {
			_, ok := provider[path]
			return ok
		},
	}

	names := intern.NewTable()
	files := intern.NewTable()

	result, err := Compile(cfg, names, files, "/proj/main.capy")
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	if result.Bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", result.Bag.All())
	}
	if len(result.Order) != 2 {
		t.Fatalf("expected 2 files processed, got %d: %v", len(result.Order), result.Order)
	}

	mainFile := result.Root
	mainBodies := result.Files[mainFile].Bodies
	if len(mainBodies.Imports) != 1 {
		t.Fatalf("expected main.capy to have discovered exactly 1 import, got %d", len(mainBodies.Imports))
	}
	depFile := mainBodies.Imports[0]
	if depFile == mainFile {
		t.Fatalf("expected dep.capy to be a distinct file from main.capy")
	}
	if _, ok := result.Files[depFile]; !ok {
		t.Fatalf("expected dep.capy to appear in the compiled file set")
	}

	resultName := intern.Name(names.Intern("Result"))
	mainInfer := result.Files[mainFile].Infer
	if mainInfer == nil {
		t.Fatalf("expected main.capy to have been inferred")
	}
	if _, ok := mainInfer.Globals[resultName]; !ok {
		t.Fatalf("expected 'Result' to have an inferred type")
	}

	if len(mainBodies.Comptimes) != 1 {
		t.Fatalf("expected exactly 1 comptime expression in main.capy, got %d", len(mainBodies.Comptimes))
	}
	ctID := core.ComptimeID(0)
	r, ok := result.Comptime.Get(mainFile, ctID)
	if !ok {
		t.Fatalf("expected a memoized comptime result for main.capy")
	}
	ir, ok := r.(comptime.Integer)
	if !ok {
		t.Fatalf("expected an Integer comptime result, got %#v", r)
	}
	if ir.Value != 15 {
		t.Fatalf("expected Dep.BASE + 5 == 15, got %d", ir.Value)
	}
}

// TestCompileReportsImportErrors verifies a missing import file
// surfaces as a diagnostic rather than aborting the whole compile
// (spec §4.5: lowering continues with an Unresolved placeholder so the
// rest of the file still lowers).
func TestCompileReportsImportErrors(t *testing.T) {
	mainTree := &syntax.Tree{
		Path: "/proj/main.capy",
		Defs: []*syntax.Definition{
			def("Dep", &syntax.ImportExpr{Path: "missing.capy"}),
		},
	}
	provider := fakeTreeProvider{"/proj/main.capy": mainTree}
	cfg := Config{
		CWD:      "/proj",
		Provider: provider.provide,
		Exists: func(path string) bool {
			_, ok := provider[path]
			return ok
		},
	}

	names := intern.NewTable()
	files := intern.NewTable()
	result, err := Compile(cfg, names, files, "/proj/main.capy")
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	if !result.Bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing import")
	}
	if len(result.Order) != 1 {
		t.Fatalf("expected only main.capy to be processed, got %d", len(result.Order))
	}
}

package driver

import (
	"fmt"
	"os"
	"time"

	"github.com/capy-lang/capy/internal/comptime"
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/infer"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/lower"
	"github.com/capy-lang/capy/internal/resolve"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
	"github.com/capy-lang/capy/internal/uid"
	"github.com/capy-lang/capy/internal/worldindex"
)

// TreeProvider yields the already-parsed syntax tree for a canonical
// file path (spec §6: everything up to and including parsing happens
// outside the core; Compile never reads a file itself except through
// this callback).
type TreeProvider func(canonicalPath string) (*syntax.Tree, error)

// FileResult is everything the middle end produced for one file.
type FileResult struct {
	File   intern.FileName
	Index  *index.Index
	Bodies *core.Bodies
	Infer  *infer.Result
}

// Result is the complete output of one Compile call: the world index,
// every file's artifacts, the merged comptime result table, the root
// file, and an aggregated diagnostic bag (spec §6 "Core -> Backend").
type Result struct {
	World        *worldindex.World
	Files        map[intern.FileName]*FileResult
	Order        []intern.FileName
	Comptime     *comptime.Table
	Root         intern.FileName
	Bag          *diag.Bag
	PhaseTimings map[string]time.Duration
}

// Compile runs the full worklist: read/index/lower every file
// transitively imported from cfg root, infer types over the union of
// all files, then evaluate every comptime expression (spec §4.5).
func Compile(cfg Config, names *intern.Table, files *intern.Table, rootPath string) (*Result, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("driver: Config.Provider is required")
	}

	uids := &uid.Generator{}
	tbl := types.NewTable()
	world := worldindex.New()
	exists := cfg.Exists
	if exists == nil {
		exists = pathExists
	}
	resolver := resolve.New(cfg.ModDir, cfg.CWD, exists)

	result := &Result{
		World:        world,
		Files:        make(map[intern.FileName]*FileResult),
		Comptime:     comptime.NewTable(),
		Bag:          &diag.Bag{},
		PhaseTimings: make(map[string]time.Duration),
	}

	rootCanon := resolve.Canonicalize(rootPath)
	root := intern.FileName(files.Intern(rootCanon))
	result.Root = root

	start := time.Now()
	if err := runWorklist(cfg, names, files, uids, world, resolver, result, root, rootCanon); err != nil {
		return nil, err
	}
	result.PhaseTimings["index+lower"] = time.Since(start)

	start = time.Now()
	runInference(tbl, names, result)
	result.PhaseTimings["infer"] = time.Since(start)

	start = time.Now()
	runComptime(names, result)
	result.PhaseTimings["comptime"] = time.Since(start)

	return result, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// runWorklist drains the import queue: each file is read, indexed, and
// lowered exactly once; lowering may discover more files to enqueue
// (spec §4.5 steps 1-3).
func runWorklist(cfg Config, names, files *intern.Table, uids *uid.Generator, world *worldindex.World, resolver *resolve.Resolver, result *Result, root intern.FileName, rootCanon string) error {
	type pending struct {
		file intern.FileName
		path string
	}
	queue := []pending{{file: root, path: rootCanon}}
	queued := map[intern.FileName]bool{root: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		tree, err := cfg.Provider(cur.path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", cur.path, err)
		}

		for _, se := range tree.Errors {
			result.Bag.Errorf(diag.TyParseError, diag.PhaseIndexing, se.Range, "%s", se.Message)
		}

		ix, idxBag := index.Build(cur.file, tree, names)
		result.Bag.Extend(idxBag)
		world.Install(ix)

		l := lower.New(names, files, uids, ix, world, resolver, cur.path)
		l.LowerFile(tree)
		result.Bag.Extend(l.Bag)

		result.Files[cur.file] = &FileResult{File: cur.file, Index: ix, Bodies: l.Bodies}
		result.Order = append(result.Order, cur.file)

		for _, imp := range l.Bodies.Imports {
			if queued[imp] {
				continue
			}
			queued[imp] = true
			queue = append(queue, pending{file: imp, path: files.String(uint32(imp))})
		}
	}
	return nil
}

// runInference type-checks every discovered file, backed by a
// cross-file lookup that lazily infers a dependency's globals on first
// reference (spec §4.5 step 4: "run inference over the union of all
// indices and bodies").
func runInference(tbl *types.Table, names *intern.Table, result *Result) {
	uids := &uid.Generator{}

	var crossFile infer.CrossFileLookup
	crossFile = func(file intern.FileName, name intern.Name) (types.Ty, bool) {
		fr, ok := result.Files[file]
		if !ok {
			return nil, false
		}
		if fr.Infer == nil {
			res, bag := inferFile(tbl, names, uids, result, file, crossFile)
			fr.Infer = res
			result.Bag.Extend(bag)
		}
		ty, ok := fr.Infer.Globals[name]
		return ty, ok
	}

	for _, file := range result.Order {
		fr := result.Files[file]
		if fr.Infer != nil {
			continue
		}
		res, bag := inferFile(tbl, names, uids, result, file, crossFile)
		fr.Infer = res
		result.Bag.Extend(bag)
	}
}

func inferFile(tbl *types.Table, names *intern.Table, uids *uid.Generator, result *Result, file intern.FileName, crossFile infer.CrossFileLookup) (*infer.Result, *diag.Bag) {
	fr := result.Files[file]
	return infer.CheckFile(file, fr.Bodies, tbl, names, fr.Index, uids, crossFile)
}

// runComptime evaluates every file's comptime expressions, backed by a
// cross-file value lookup that forces a dependency's comptimes lazily
// (spec §4.4 step 5, §4.5).
func runComptime(names *intern.Table, result *Result) {
	interpreters := make(map[intern.FileName]*comptime.Interpreter)

	var crossVal comptime.GlobalValueLookup
	crossVal = func(file intern.FileName, name intern.Name) (comptime.Value, bool) {
		if _, ok := result.Files[file]; !ok {
			return nil, false
		}
		return interpFor(names, result, interpreters, crossVal, file).GlobalValue(name)
	}

	for _, file := range result.Order {
		it := interpFor(names, result, interpreters, crossVal, file)
		it.EvaluateAll()
		result.Bag.Extend(it.Bag)
	}
}

func interpFor(names *intern.Table, result *Result, interpreters map[intern.FileName]*comptime.Interpreter, crossVal comptime.GlobalValueLookup, file intern.FileName) *comptime.Interpreter {
	if it, ok := interpreters[file]; ok {
		return it
	}
	fr := result.Files[file]
	it := comptime.NewInterpreter(file, fr.Bodies, names, result.Comptime, crossVal)
	interpreters[file] = it
	return it
}

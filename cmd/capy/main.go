// Command capy is the command-line entry point for the Capy compiler's
// semantic middle end: index, lower, infer, and evaluate a project, or
// poke at the compile-time interpreter interactively.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/capy-lang/capy/internal/comptime"
	"github.com/capy-lang/capy/internal/driver"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

const version = "0.1.0"

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "check":
		err = runCheck(flag.Args()[1:])
	case "repl":
		err = runRepl()
	case "version":
		fmt.Printf("capy %s\n", version)
	case "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n", red("error:"), cmd)
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(cyan("capy") + " - the Capy compiler middle end")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  capy check <file>   index, lower, infer, and evaluate a file")
	fmt.Println("  capy repl           interactively evaluate compile-time expressions")
	fmt.Println("  capy version        print the version")
	fmt.Println("  capy help           print this message")
}

// runCheck wires internal/driver's full worklist pipeline against a
// single root file. There is no external lexer/parser wired into this
// binary yet (spec §6 treats parsing as outside the core), so the
// TreeProvider stub below reports that plainly instead of pretending
// to support source files it cannot read.
//
// TODO: wire a real TreeProvider once a surface lexer/parser lands;
// until then `check` can only be exercised with Provider supplied
// programmatically (see internal/driver/driver_test.go).
func runCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: capy check <file>")
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg := driver.Config{
		CWD:  cwd,
		Mode: driver.ModeCheck,
		Provider: func(canonicalPath string) (*syntax.Tree, error) {
			return nil, fmt.Errorf("no surface parser is wired into this build yet; cannot read %s", canonicalPath)
		},
	}

	if pf, perr := driver.LoadProjectFile(filepath.Join(cwd, "capy.yaml")); perr == nil {
		cfg.ApplyProjectFile(pf)
	}
	if cfg.ModDir == "" {
		cfg.ModDir = cwd
	}

	names := intern.NewTable()
	files := intern.NewTable()

	result, err := driver.Compile(cfg, names, files, path)
	if err != nil {
		return err
	}

	printDiagnostics(result, files)
	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	fmt.Println(green("ok"))
	return nil
}

func printDiagnostics(result *driver.Result, files *intern.Table) {
	for _, d := range result.Bag.All() {
		label := yellow("warning:")
		if d.Severity.String() == "error" {
			label = red("error:")
		}
		fmt.Printf("%s %s [%s]\n", label, d.Message, d.Kind)
	}
}

// runRepl is a small interactive scratchpad over internal/comptime: it
// reads one arithmetic expression per line, lowers it directly to core
// IR (see replexpr.go), and prints the evaluated result. It does not
// depend on a surface parser at all, so it works today.
func runRepl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(cyan("capy repl") + " - compile-time expression evaluator (Ctrl-D to exit)")

	names := intern.NewTable()
	files := intern.NewTable()
	file := intern.FileName(files.Intern("repl"))

	for {
		input, err := line.Prompt("capy> ")
		if err != nil {
			fmt.Println()
			return nil
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		bodies, exprID, err := parseAndLowerExpr(input)
		if err != nil {
			fmt.Printf("%s %v\n", red("error:"), err)
			continue
		}
		ctID := comptimeForExpr(bodies, exprID)

		results := comptime.NewTable()
		it := comptime.NewInterpreter(file, bodies, names, results, nil)
		v := it.EvalComptime(ctID)

		if it.Bag.HasErrors() {
			for _, d := range it.Bag.All() {
				fmt.Printf("%s %s\n", red("error:"), d.Message)
			}
			continue
		}
		fmt.Println(green(v.String()))
	}
}

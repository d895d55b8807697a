// Package driver implements the compilation orchestrator (spec §4.5,
// §5): world index construction, the import worklist, and phase
// sequencing from parsed syntax trees through lowering, inference, and
// compile-time evaluation.
package driver

import (
	"fmt"
	"os"

	"github.com/capy-lang/capy/internal/resolve"
	"gopkg.in/yaml.v3"
)

// Mode selects how much of the pipeline a Compile call runs (spec §5:
// the driver is the only thing that performs I/O; Mode just changes
// how far the in-process stages go), modeled on the teacher's
// pipeline.Mode.
type Mode int

const (
	// ModeCheck runs indexing, lowering, inference, and comptime
	// evaluation, but nothing past it — a plain diagnostics pass.
	ModeCheck Mode = iota
	// ModeFull is the same as ModeCheck today; it exists so a future
	// backend stage has a mode to opt into without another flag.
	ModeFull
)

// Config holds everything one Compile call needs, modeled on the
// teacher's pipeline.Config (Mode plus a Verbose flag, which Compile
// does not read).
type Config struct {
	// ModDir is the root directory `import mod "name"` resolves
	// against (spec §6 "Module resolution").
	ModDir string
	// CWD is the working directory non-mod imports must resolve
	// inside, along with ModDir (spec §6).
	CWD string

	Mode    Mode
	Verbose bool

	// Provider supplies the already-parsed syntax tree for a
	// canonical file path (spec §6: "Driver -> Parser" is external to
	// this package; Compile only ever reads through this callback).
	Provider TreeProvider

	// Exists backs module/relative import resolution (internal/resolve
	// .Resolver). Defaults to os.Stat-based existence when nil, but
	// tests can substitute a fake filesystem.
	Exists resolve.StatFunc
}

// ProjectFile is the optional `capy.yaml` project manifest the driver
// reads before compiling (spec §6 "Environment": mod_dir and the
// working directory are the only environment inputs that affect
// semantics). Grounded on the teacher's use of yaml.v3 for its own
// project/session manifests.
type ProjectFile struct {
	ModDir      string   `yaml:"mod_dir"`
	SearchPaths []string `yaml:"search_paths"`
}

// LoadProjectFile reads and parses a capy.yaml at path. A missing file
// is not an error — callers fall back to Config defaults.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectFile{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pf, nil
}

// ApplyProjectFile fills in Config fields the manifest specifies and
// the caller left zero.
func (c *Config) ApplyProjectFile(pf *ProjectFile) {
	if c.ModDir == "" {
		c.ModDir = pf.ModDir
	}
}

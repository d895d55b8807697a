// Package resolve turns Capy import strings into canonical,
// platform-normalized file paths (spec §4.2, §6, §9 "Import
// canonicalization"). It performs no caching or worklist scheduling
// itself — internal/driver owns the worklist and calls Resolver once
// per discovered import.
package resolve

import (
	"errors"
	"path/filepath"
	"strings"
)

// Kind errors returned by ResolveMod and ResolveRelative, matched against by the lowerer to
// choose the right diagnostic (spec §7).
var (
	ErrModNotAlphanumeric = errors.New("mod import path must be alphanumeric")
	ErrModDirMissing      = errors.New("mod directory does not exist")
	ErrModFileMissing     = errors.New("mod directory does not contain mod.capy")
	ErrMustEndInDotCapy   = errors.New("import path must end in .capy")
	ErrFileMissing        = errors.New("imported file does not exist")
	ErrOutsideCWD         = errors.New("import resolves outside mod_dir and the current working directory")
)

// StatFunc abstracts file-existence checks so tests can use a fake
// filesystem (spec §4.2: "a flag indicating a fake file system for
// tests").
type StatFunc func(path string) bool

// Resolver resolves import strings relative to an importing file, a
// module root directory, and the compilation's working directory
// (spec §6 "Module resolution").
type Resolver struct {
	ModDir string
	CWD    string
	Exists StatFunc
}

// New creates a Resolver backed by the given mod_dir/cwd and existence
// check.
func New(modDir, cwd string, exists StatFunc) *Resolver {
	return &Resolver{ModDir: modDir, CWD: cwd, Exists: exists}
}

// ResolveMod resolves `import mod "name"` to {mod_dir}/{name}/mod.capy
// (spec §4.2, §6).
func (r *Resolver) ResolveMod(name string) (string, error) {
	if !isAlphanumeric(name) {
		return "", ErrModNotAlphanumeric
	}
	dir := filepath.Join(r.ModDir, name)
	if !r.Exists(dir) {
		return "", ErrModDirMissing
	}
	file := filepath.Join(dir, "mod.capy")
	if !r.Exists(file) {
		return "", ErrModFileMissing
	}
	return Canonicalize(file), nil
}

// ResolveRelative resolves a non-mod `import "path.capy"` relative to
// importingFile, then verifies the canonical result lies inside
// mod_dir or cwd (spec §4.2, §6).
func (r *Resolver) ResolveRelative(path, importingFile string) (string, error) {
	if !strings.HasSuffix(path, ".capy") {
		return "", ErrMustEndInDotCapy
	}
	base := filepath.Dir(importingFile)
	resolved := path
	if !filepath.IsAbs(path) {
		resolved = filepath.Join(base, path)
	}
	canon := Canonicalize(resolved)
	if !r.Exists(canon) {
		return "", ErrFileMissing
	}
	if !r.withinRoots(canon) {
		return "", ErrOutsideCWD
	}
	return canon, nil
}

func (r *Resolver) withinRoots(path string) bool {
	return isWithin(path, Canonicalize(r.ModDir)) || isWithin(path, Canonicalize(r.CWD))
}

func isWithin(path, root string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "..")
}

// Canonicalize normalizes separators and resolves `.`/`..` components
// so that two spellings of the same file yield the same string before
// it is interned (spec §6, §9).
func Canonicalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

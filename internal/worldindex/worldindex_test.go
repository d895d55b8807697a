package worldindex

import (
	"testing"

	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
)

func TestInstallAndLookup(t *testing.T) {
	w := New()
	ix := index.New(intern.FileName(1))
	ix.Entries[intern.Name(5)] = &index.Entry{Name: intern.Name(5), Kind: index.KindGlobal}
	ix.Order = append(ix.Order, intern.Name(5))

	w.Install(ix)
	if !w.Has(intern.FileName(1)) {
		t.Fatalf("expected file installed")
	}
	entry, ok := w.Lookup(intern.FileName(1), intern.Name(5))
	if !ok || entry.Name != intern.Name(5) {
		t.Fatalf("expected lookup to find installed entry")
	}
	if _, ok := w.Lookup(intern.FileName(2), intern.Name(5)); ok {
		t.Fatalf("expected lookup on unknown file to miss")
	}
}

func TestInstallIsAppendOnly(t *testing.T) {
	w := New()
	first := index.New(intern.FileName(1))
	first.Entries[intern.Name(1)] = &index.Entry{Name: intern.Name(1)}
	w.Install(first)

	second := index.New(intern.FileName(1))
	second.Entries[intern.Name(2)] = &index.Entry{Name: intern.Name(2)}
	w.Install(second)

	got, _ := w.Get(intern.FileName(1))
	if got != first {
		t.Fatalf("expected second install of the same file to be ignored")
	}
}

package intern

import "testing"

func TestInternStable(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	c := tbl.Intern("foo")

	if a != c {
		t.Fatalf("expected same id for repeated intern, got %d and %d", a, c)
	}
	if a == b {
		t.Fatalf("expected distinct ids for distinct strings")
	}
	if tbl.String(a) != "foo" || tbl.String(b) != "bar" {
		t.Fatalf("round trip failed")
	}
}

func TestLookupMiss(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Lookup("nope"); ok {
		t.Fatalf("expected miss on empty table")
	}
	tbl.Intern("nope")
	if _, ok := tbl.Lookup("nope"); !ok {
		t.Fatalf("expected hit after intern")
	}
}

func TestInternersNameAndFile(t *testing.T) {
	in := New()
	n1 := in.Name("x")
	n2 := in.Name("x")
	if n1 != n2 {
		t.Fatalf("name interning not stable")
	}
	f := in.File("/tmp/a.capy")
	if in.FileString(f) != "/tmp/a.capy" {
		t.Fatalf("file interning round trip failed")
	}
}

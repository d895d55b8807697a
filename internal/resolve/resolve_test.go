package resolve

import "testing"

func fakeFS(existing map[string]bool) StatFunc {
	return func(path string) bool { return existing[path] }
}

func TestResolveModHappyPath(t *testing.T) {
	r := New("/mods", "/work", fakeFS(map[string]bool{
		"/mods/strings":          true,
		"/mods/strings/mod.capy": true,
	}))
	got, err := r.ResolveMod("strings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/mods/strings/mod.capy" {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestResolveModRejectsNonAlphanumeric(t *testing.T) {
	r := New("/mods", "/work", fakeFS(nil))
	if _, err := r.ResolveMod("foo-bar"); err != ErrModNotAlphanumeric {
		t.Fatalf("expected ErrModNotAlphanumeric, got %v", err)
	}
}

func TestResolveModMissingDir(t *testing.T) {
	r := New("/mods", "/work", fakeFS(nil))
	if _, err := r.ResolveMod("strings"); err != ErrModDirMissing {
		t.Fatalf("expected ErrModDirMissing, got %v", err)
	}
}

func TestResolveModMissingModFile(t *testing.T) {
	r := New("/mods", "/work", fakeFS(map[string]bool{"/mods/strings": true}))
	if _, err := r.ResolveMod("strings"); err != ErrModFileMissing {
		t.Fatalf("expected ErrModFileMissing, got %v", err)
	}
}

func TestResolveRelativeMustEndInDotCapy(t *testing.T) {
	r := New("/mods", "/work", fakeFS(nil))
	if _, err := r.ResolveRelative("other.txt", "/work/main.capy"); err != ErrMustEndInDotCapy {
		t.Fatalf("expected ErrMustEndInDotCapy, got %v", err)
	}
}

func TestResolveRelativeOutsideCWD(t *testing.T) {
	r := New("/mods", "/work", fakeFS(map[string]bool{"/etc/other.capy": true}))
	if _, err := r.ResolveRelative("../../etc/other.capy", "/work/main.capy"); err != ErrOutsideCWD {
		t.Fatalf("expected ErrOutsideCWD, got %v", err)
	}
}

func TestResolveRelativeWithinCWD(t *testing.T) {
	r := New("/mods", "/work", fakeFS(map[string]bool{"/work/sub/other.capy": true}))
	got, err := r.ResolveRelative("sub/other.capy", "/work/main.capy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/work/sub/other.capy" {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestCanonicalizeCollapsesDotDot(t *testing.T) {
	if got := Canonicalize("/work/sub/../other.capy"); got != "/work/other.capy" {
		t.Fatalf("unexpected canonical path: %s", got)
	}
}

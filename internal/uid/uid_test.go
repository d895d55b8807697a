package uid

import "testing"

func TestGeneratorMonotonicAndIndependent(t *testing.T) {
	var g Generator

	if got := g.Distinct(); got != 1 {
		t.Fatalf("expected first distinct uid to be 1, got %d", got)
	}
	if got := g.Distinct(); got != 2 {
		t.Fatalf("expected second distinct uid to be 2, got %d", got)
	}
	if got := g.Struct(); got != 1 {
		t.Fatalf("expected struct counter to start independently at 1, got %d", got)
	}
	if got := g.Scope(); got != 1 {
		t.Fatalf("expected scope counter to start independently at 1, got %d", got)
	}
	if got := g.Label(); got != 1 {
		t.Fatalf("expected label counter to start independently at 1, got %d", got)
	}
}

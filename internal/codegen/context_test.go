package codegen

import "testing"

func TestFreshNameCountersAreSequentialAndIsolated(t *testing.T) {
	c := NewContext(nil)
	if got := c.freshCmp(); got != "__cmp_1" {
		t.Fatalf("freshCmp() = %q, want __cmp_1", got)
	}
	if got := c.freshCmp(); got != "__cmp_2" {
		t.Fatalf("second freshCmp() = %q, want __cmp_2", got)
	}
	if got := c.freshMatch(); got != "__match_1" {
		t.Fatalf("freshMatch() = %q, want __match_1 (independent counter from freshCmp)", got)
	}
	if got := c.freshEntered(); got != "__entered_1" {
		t.Fatalf("freshEntered() = %q, want __entered_1", got)
	}
}

func TestNewContextDoesNotShareStateAcrossCalls(t *testing.T) {
	c1 := NewContext(nil)
	c1.freshCmp()
	c1.freshCmp()

	c2 := NewContext(nil)
	if got := c2.freshCmp(); got != "__cmp_1" {
		t.Fatalf("a fresh Context should start its counters at 1, got %q", got)
	}
}

func TestDeclareOnlyFirstTimeTrue(t *testing.T) {
	c := NewContext(nil)
	if !c.declare("x") {
		t.Fatalf("first declare(x) should return true")
	}
	if c.declare("x") {
		t.Fatalf("second declare(x) should return false")
	}
}

func TestUsedHelpersSortedAndDeduped(t *testing.T) {
	c := NewContext(nil)
	c.useHelper("zeta")
	c.useHelper("alpha")
	c.useHelper("zeta")

	got := c.usedHelpers()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Fatalf("usedHelpers() = %v, want sorted [alpha zeta]", got)
	}
	if !c.usesHelper("alpha") || c.usesHelper("missing") {
		t.Fatalf("usesHelper lookup incorrect")
	}
}

func TestScopeHashSuffixDeterministicAndStable(t *testing.T) {
	c := NewContext(nil)
	h1 := c.scopeHashSuffix("Counter", ".foo { color: red; }")
	h2 := c.scopeHashSuffix("Counter", ".foo { color: red; }")
	if h1 != h2 {
		t.Fatalf("scopeHashSuffix should be cached/stable across calls with the same key, got %q then %q", h1, h2)
	}
	if len(h1) != 8 {
		t.Fatalf("scopeHashSuffix should be 8 chars, got %q (len %d)", h1, len(h1))
	}

	h3 := c.scopeHashSuffix("Other", ".foo { color: red; }")
	if h3 == h1 {
		t.Fatalf("different component names should produce different scope hashes")
	}
}

func TestWriteAndString(t *testing.T) {
	c := NewContext(nil)
	c.write("hello ")
	c.writef("%s!", "world")
	if got := c.String(); got != "hello world!" {
		t.Fatalf("String() = %q, want %q", got, "hello world!")
	}
}

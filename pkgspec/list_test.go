package pkgspec

import (
	"errors"
	"testing"
)

func mustPkg(t *testing.T, name, arch, version, release string) *Package {
	t.Helper()
	p := New()
	if err := p.SetName(name); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if err := p.SetArch(arch); err != nil {
		t.Fatalf("SetArch: %v", err)
	}
	if err := p.SetVersion(version); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	if err := p.SetRelease(release); err != nil {
		t.Fatalf("SetRelease: %v", err)
	}
	return p
}

func TestMergePackageAddsNewRecord(t *testing.T) {
	l := NewList(RuleNone)
	p := mustPkg(t, "foo", "x86_64", "1.0", "1")
	c, err := l.MergePackage(p)
	if err != nil {
		t.Fatalf("MergePackage: %v", err)
	}
	if c != ChangeAdded {
		t.Errorf("Change = %v, want ChangeAdded", c)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestMergePackagePlainConflictRejected(t *testing.T) {
	l := NewList(RuleNone)
	a := mustPkg(t, "foo", "x86_64", "1.0", "1")
	b := mustPkg(t, "foo", "x86_64", "2.0", "1")
	if _, err := l.MergePackage(a); err != nil {
		t.Fatalf("MergePackage(a): %v", err)
	}
	_, err := l.MergePackage(b)
	if err == nil {
		t.Fatalf("expected conflict error merging b over a")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *pkgspec.Error, got %T (%v)", err, err)
	}
	if pe.Kind != KindConflict {
		t.Errorf("Kind = %v, want KindConflict", pe.Kind)
	}
}

func TestMergePackageUsePrefixAddRemove(t *testing.T) {
	l := NewList(RuleUsePrefix)
	base := mustPkg(t, "foo", "x86_64", "1.0", "1")
	if _, err := l.MergePackage(base); err != nil {
		t.Fatalf("MergePackage(base): %v", err)
	}

	removed := mustPkg(t, "foo", "x86_64", "2.0", "1")
	removed.SetPrefix(PrefixRemove)
	c, err := l.MergePackage(removed)
	if err != nil {
		t.Fatalf("MergePackage(removed): %v", err)
	}
	if c != ChangeRemoved {
		t.Errorf("Change = %v, want ChangeRemoved", c)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after prefix removal", l.Len())
	}
}

func TestMergePackageUsePrefixPinRejectsLaterUpdates(t *testing.T) {
	l := NewList(RuleUsePrefix)
	pinned := mustPkg(t, "foo", "x86_64", "1.0", "1")
	pinned.SetPrefix(PrefixPin)
	if _, err := l.MergePackage(pinned); err != nil {
		t.Fatalf("MergePackage(pinned): %v", err)
	}

	update := mustPkg(t, "foo", "x86_64", "2.0", "1")
	_, err := l.MergePackage(update)
	if err == nil {
		t.Fatalf("expected pinned version to reject update")
	}
}

func TestMergePackageSquashIdenticalRefreshesDerivation(t *testing.T) {
	l := NewList(RuleSquashIdentical)
	a := mustPkg(t, "foo", "x86_64", "1.0", "1")
	a.SetDerivation("a.cfg")
	if _, err := l.MergePackage(a); err != nil {
		t.Fatalf("MergePackage(a): %v", err)
	}

	b := mustPkg(t, "foo", "x86_64", "1.0", "1")
	b.SetDerivation("b.cfg")
	c, err := l.MergePackage(b)
	if err != nil {
		t.Fatalf("MergePackage(b): %v", err)
	}
	if c != ChangeReplaced {
		t.Errorf("Change = %v, want ChangeReplaced", c)
	}
	if got := l.Find("foo", "x86_64").Derivation(); got != "b.cfg" {
		t.Errorf("Derivation() = %q, want %q", got, "b.cfg")
	}
}

func TestMergePackageKeepAllAllowsDuplicates(t *testing.T) {
	l := NewList(RuleKeepAll)
	a := mustPkg(t, "foo", "x86_64", "1.0", "1")
	b := mustPkg(t, "foo", "x86_64", "2.0", "1")
	l.MergePackage(a)
	l.MergePackage(b)
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2 duplicates retained", l.Len())
	}
}

func TestMergePackageReplaceAlwaysWins(t *testing.T) {
	l := NewList(RuleReplace)
	a := mustPkg(t, "foo", "x86_64", "1.0", "1")
	b := mustPkg(t, "foo", "x86_64", "2.0", "1")
	l.MergePackage(a)
	c, err := l.MergePackage(b)
	if err != nil {
		t.Fatalf("MergePackage(b): %v", err)
	}
	if c != ChangeReplaced {
		t.Errorf("Change = %v, want ChangeReplaced", c)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestMergePackageUsePriorityOrderIndependent(t *testing.T) {
	run := func(first, second *Package) *List {
		l := NewList(RuleUsePriority)
		l.MergePackage(first)
		l.MergePackage(second)
		return l
	}

	low := mustPkg(t, "foo", "x86_64", "1.0", "1")
	low.SetPriority(1)
	high := mustPkg(t, "foo", "x86_64", "2.0", "1")
	high.SetPriority(5)

	lowFirst := run(low, high)
	highFirst := run(high, low)

	if got := lowFirst.Find("foo", "x86_64").Version(); got != "2.0" {
		t.Errorf("low-then-high: Version() = %q, want 2.0", got)
	}
	if got := highFirst.Find("foo", "x86_64").Version(); got != "2.0" {
		t.Errorf("high-then-low: Version() = %q, want 2.0", got)
	}
}

func TestMergePackageUsePriorityTieIsConflict(t *testing.T) {
	l := NewList(RuleUsePriority)
	a := mustPkg(t, "foo", "x86_64", "1.0", "1")
	a.SetPriority(3)
	b := mustPkg(t, "foo", "x86_64", "2.0", "1")
	b.SetPriority(3)
	l.MergePackage(a)
	if _, err := l.MergePackage(b); err == nil {
		t.Errorf("expected equal-priority merge to conflict")
	}
}

func TestSortOrdersByCompare(t *testing.T) {
	l := NewList(RuleKeepAll)
	l.MergePackage(mustPkg(t, "zeta", "x86_64", "1.0", "1"))
	l.MergePackage(mustPkg(t, "alpha", "x86_64", "1.0", "1"))
	l.Sort()
	if got := l.Head().Name(); got != "alpha" {
		t.Errorf("Head().Name() = %q, want alpha", got)
	}
	if got := l.Tail().Name(); got != "zeta" {
		t.Errorf("Tail().Name() = %q, want zeta", got)
	}
}

func TestMatchFiltersByGlob(t *testing.T) {
	l := NewList(RuleKeepAll)
	l.MergePackage(mustPkg(t, "libfoo", "x86_64", "1.0", "1"))
	l.MergePackage(mustPkg(t, "libbar", "x86_64", "1.0", "1"))
	matched := l.Match("lib*", "", "", "")
	if matched.Len() != 2 {
		t.Errorf("Match(lib*) Len() = %d, want 2", matched.Len())
	}
	exact := l.Match("libfoo", "", "", "")
	if exact.Len() != 1 {
		t.Errorf("Match(libfoo) Len() = %d, want 1", exact.Len())
	}
}

func TestSearchAnchors(t *testing.T) {
	l := NewList(RuleKeepAll)
	l.MergePackage(mustPkg(t, "libfoo", "x86_64", "1.0", "1"))
	l.MergePackage(mustPkg(t, "foolib", "x86_64", "1.0", "1"))

	prefixOnly := l.Search("^foo", "", "", "")
	if prefixOnly.Len() != 1 || prefixOnly.Head().Name() != "foolib" {
		t.Errorf("Search(^foo) did not anchor to start")
	}

	substring := l.Search("foo", "", "", "")
	if substring.Len() != 2 {
		t.Errorf("Search(foo) Len() = %d, want 2 (substring match)", substring.Len())
	}
}

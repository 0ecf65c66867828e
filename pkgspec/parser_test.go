package pkgspec

import "testing"

func TestParseFullySpecifiedLine(t *testing.T) {
	p, err := Parse("+foo-1.2-3/x86_64:dev[!server]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.Name(), "foo"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := p.Version(), "1.2"; got != want {
		t.Errorf("Version() = %q, want %q", got, want)
	}
	if got, want := p.Release(), "3"; got != want {
		t.Errorf("Release() = %q, want %q", got, want)
	}
	if got, want := p.Arch(), "x86_64"; got != want {
		t.Errorf("Arch() = %q, want %q", got, want)
	}
	if got, want := p.Flags(), "dev"; got != want {
		t.Errorf("Flags() = %q, want %q", got, want)
	}
	if got, want := p.Context(), "!server"; got != want {
		t.Errorf("Context() = %q, want %q", got, want)
	}
	if got, want := p.Prefix(), PrefixAdd; got != want {
		t.Errorf("Prefix() = %q, want %q", got, want)
	}
}

func TestParseLeadingArch(t *testing.T) {
	p, err := Parse("x86_64/bar-2.0-1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.Name(), "bar"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := p.Arch(), "x86_64"; got != want {
		t.Errorf("Arch() = %q, want %q", got, want)
	}
	if got, want := p.Version(), "2.0"; got != want {
		t.Errorf("Version() = %q, want %q", got, want)
	}
	if got, want := p.Release(), "1"; got != want {
		t.Errorf("Release() = %q, want %q", got, want)
	}
	if p.HasPrefix() {
		t.Errorf("expected no prefix")
	}
}

func TestParseMinimal(t *testing.T) {
	p, err := Parse("foo-1-1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.Name(), "foo"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if p.HasArch() || p.HasFlags() || p.HasContext() {
		t.Errorf("expected no arch/flags/context on minimal line")
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"foo",
		"foo-1",
		"",
		"!foo-1-1",
	}
	for _, line := range cases {
		if _, err := Parse(line); err == nil {
			t.Errorf("Parse(%q): expected error, got none", line)
		}
	}
}

func TestParseUnmatchedContextBracket(t *testing.T) {
	if _, err := Parse("foo-1-1]"); err == nil {
		t.Errorf("expected error for unmatched ']'")
	}
}

func TestParseTrailingSlashArchDiscardedWhenLeadingArchPresent(t *testing.T) {
	p, err := Parse("x86_64/foo-1-1/noarch")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.Arch(), "x86_64"; got != want {
		t.Errorf("Arch() = %q, want %q (leading ARCH2 wins over trailing ARCH1)", got, want)
	}
}

func TestParseContextValidatorRejection(t *testing.T) {
	reject := func(string) bool { return false }
	if _, err := ParseWithContext("foo-1-1[bad]", reject); err == nil {
		t.Errorf("expected context validator rejection to fail parse")
	}
}

package ingest

import (
	"strings"
	"testing"

	"github.com/sjquinney/lcfg-core/format"
	"github.com/sjquinney/lcfg-core/pkgspec"
)

func TestConsumeCPPBasic(t *testing.T) {
	src := strings.Join([]string{
		"",
		"foo-1.0-1",
		"bar-2.0-1/x86_64",
	}, "\n")

	l := pkgspec.NewList(pkgspec.RuleReplace)
	change, err := ConsumeCPP(strings.NewReader(src), l, Config{})
	if err != nil {
		t.Fatalf("ConsumeCPP: %v", err)
	}
	if change != pkgspec.ChangeModified {
		t.Errorf("Change = %v, want ChangeModified", change)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if p := l.Find("foo", ""); p == nil {
		t.Errorf("expected to find foo")
	}
}

func TestConsumeCPPDefaultArch(t *testing.T) {
	l := pkgspec.NewList(pkgspec.RuleReplace)
	_, err := ConsumeCPP(strings.NewReader("foo-1.0-1\n"), l, Config{DefaultArch: "x86_64"})
	if err != nil {
		t.Fatalf("ConsumeCPP: %v", err)
	}
	p := l.Find("foo", "x86_64")
	if p == nil {
		t.Fatalf("expected foo to receive the default arch")
	}
}

func TestConsumeCPPPragmaMetadataCarryForward(t *testing.T) {
	src := strings.Join([]string{
		`#pragma LCFG derive "site.cfg"`,
		"foo-1.0-1",
		"bar-1.0-1",
	}, "\n")

	l := pkgspec.NewList(pkgspec.RuleReplace)
	_, err := ConsumeCPP(strings.NewReader(src), l, Config{Options: format.UseMeta})
	if err != nil {
		t.Fatalf("ConsumeCPP: %v", err)
	}
	for _, name := range []string{"foo", "bar"} {
		p := l.Find(name, "")
		if p == nil {
			t.Fatalf("expected to find %s", name)
		}
		if got := p.Derivation(); got != "site.cfg" {
			t.Errorf("%s.Derivation() = %q, want %q", name, got, "site.cfg")
		}
	}
}

func TestConsumeCPPDerivationDefaultsToFileLine(t *testing.T) {
	src := strings.Join([]string{
		`# 10 "site.cfg"`,
		"foo-1.0-1",
	}, "\n")

	l := pkgspec.NewList(pkgspec.RuleReplace)
	_, err := ConsumeCPP(strings.NewReader(src), l, Config{Options: format.UseMeta})
	if err != nil {
		t.Fatalf("ConsumeCPP: %v", err)
	}
	p := l.Find("foo", "")
	if p == nil {
		t.Fatalf("expected to find foo")
	}
	if got, want := p.Derivation(), "site.cfg:10"; got != want {
		t.Errorf("Derivation() = %q, want %q", got, want)
	}
}

func TestConsumeCPPLineDirectiveEntryTracksDependencies(t *testing.T) {
	src := strings.Join([]string{
		`# 1 "site.cfg" 1`,
		"foo-1.0-1",
	}, "\n")

	var deps []string
	l := pkgspec.NewList(pkgspec.RuleReplace)
	_, err := ConsumeCPP(strings.NewReader(src), l, Config{Dependencies: &deps})
	if err != nil {
		t.Fatalf("ConsumeCPP: %v", err)
	}
	if len(deps) != 1 || deps[0] != "site.cfg" {
		t.Errorf("Dependencies = %v, want [site.cfg]", deps)
	}
}

func TestConsumeCPPErrorIncludesFileAndLine(t *testing.T) {
	src := strings.Join([]string{
		`# 1 "site.cfg"`,
		"nohyphens",
	}, "\n")

	l := pkgspec.NewList(pkgspec.RuleReplace)
	_, err := ConsumeCPP(strings.NewReader(src), l, Config{})
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if !strings.Contains(err.Error(), "site.cfg:1:") {
		t.Errorf("error = %v, missing file:line prefix", err)
	}
}

func TestConsumeDebianIndexStanzas(t *testing.T) {
	src := strings.Join([]string{
		"Package: foo",
		"Version: 1.0",
		"Architecture: amd64",
		"",
		"Package: bar",
		"Version: 2.0",
		"",
	}, "\n")

	l := pkgspec.NewList(pkgspec.RuleReplace)
	change, err := ConsumeDebianIndex(strings.NewReader(src), l, Config{})
	if err != nil {
		t.Fatalf("ConsumeDebianIndex: %v", err)
	}
	if change != pkgspec.ChangeModified {
		t.Errorf("Change = %v, want ChangeModified", change)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	foo := l.Find("foo", "amd64")
	if foo == nil || foo.Version() != "1.0" {
		t.Errorf("foo stanza not parsed correctly: %+v", foo)
	}
}

func TestConsumeDebianIndexRejectsMissingPackageField(t *testing.T) {
	src := "Version: 1.0\n\n"
	l := pkgspec.NewList(pkgspec.RuleReplace)
	if _, err := ConsumeDebianIndex(strings.NewReader(src), l, Config{}); err == nil {
		t.Errorf("expected error for stanza missing Package field")
	}
}

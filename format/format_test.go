package format

import (
	"strings"
	"testing"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

func mkPkg(t *testing.T, name, arch, version, release, flags, context string) *pkgspec.Package {
	t.Helper()
	p := pkgspec.New()
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
	if flags != "" {
		if err := p.SetFlags(flags); err != nil {
			t.Fatalf("SetFlags: %v", err)
		}
	}
	if context != "" {
		if err := p.SetContext(context, nil); err != nil {
			t.Fatalf("SetContext: %v", err)
		}
	}
	return p
}

func TestSpecRoundTrip(t *testing.T) {
	p := mkPkg(t, "foo", "x86_64", "1.2", "3", "dev", "!server")
	p.SetPrefix(pkgspec.PrefixAdd)

	line := Spec(p, "", 0)
	if got, want := line, "+foo-1.2-3/x86_64:dev[!server]"; got != want {
		t.Errorf("Spec() = %q, want %q", got, want)
	}

	reparsed, err := pkgspec.Parse(line)
	if err != nil {
		t.Fatalf("Parse(Spec()): %v", err)
	}
	if !reparsed.Equal(p) {
		t.Errorf("round trip mismatch: %+v vs %+v", reparsed, p)
	}
}

func TestSpecSuppressesArchMatchingDefault(t *testing.T) {
	p := mkPkg(t, "foo", "x86_64", "1.0", "1", "", "")
	got := Spec(p, "x86_64", 0)
	if strings.Contains(got, "/") {
		t.Errorf("Spec() = %q, expected arch to be suppressed when matching default", got)
	}
}

func TestSpecOptionsSuppressPrefixAndContext(t *testing.T) {
	p := mkPkg(t, "foo", "", "1.0", "1", "", "stable")
	p.SetPrefix(pkgspec.PrefixAdd)
	got := Spec(p, "", NoPrefix|NoContext)
	if got != "foo-1.0-1" {
		t.Errorf("Spec() = %q, want foo-1.0-1", got)
	}
}

func TestRPMFilenameRoundTrip(t *testing.T) {
	p := mkPkg(t, "foo", "x86_64", "1.2", "3", "", "")
	name, err := RPMFilename(p)
	if err != nil {
		t.Fatalf("RPMFilename: %v", err)
	}
	if want := "foo-1.2-3.x86_64.rpm"; name != want {
		t.Errorf("RPMFilename() = %q, want %q", name, want)
	}
	back, err := ParseRPMFilename(name)
	if err != nil {
		t.Fatalf("ParseRPMFilename: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("round trip mismatch: %+v vs %+v", back, p)
	}
}

func TestRPMFilenameRequiresAllFields(t *testing.T) {
	p := pkgspec.New()
	p.SetName("foo")
	if _, err := RPMFilename(p); err == nil {
		t.Errorf("expected error for missing version/release/arch")
	}
}

func TestDebFilenameStripsEpochAndMapsArch(t *testing.T) {
	p := mkPkg(t, "foo", "x86_64", "2:1.2", "3", "", "")
	name, err := DebFilename(p)
	if err != nil {
		t.Fatalf("DebFilename: %v", err)
	}
	if want := "foo_1.2-3_amd64.deb"; name != want {
		t.Errorf("DebFilename() = %q, want %q", name, want)
	}
}

func TestParseDebFilename(t *testing.T) {
	p, err := ParseDebFilename("foo_1.2-3_amd64.deb")
	if err != nil {
		t.Fatalf("ParseDebFilename: %v", err)
	}
	if p.Name() != "foo" || p.Version() != "1.2" || p.Release() != "3" || p.Arch() != "amd64" {
		t.Errorf("ParseDebFilename() = %+v, unexpected fields", p)
	}
}

func TestCPPBlockIncludesPragmasWithUseMeta(t *testing.T) {
	p := mkPkg(t, "foo", "", "1.0", "1", "", "")
	p.SetDerivation("site.cfg")
	out := CPPBlock(p, "", UseMeta)
	if !strings.Contains(out, `#pragma LCFG derive "site.cfg"`) {
		t.Errorf("CPPBlock() = %q, missing derive pragma", out)
	}
	if !strings.Contains(out, "foo-1.0-1") {
		t.Errorf("CPPBlock() = %q, missing spec line", out)
	}
}

func TestCPPBlockOmitsPragmasWithoutUseMeta(t *testing.T) {
	p := mkPkg(t, "foo", "", "1.0", "1", "", "")
	p.SetDerivation("site.cfg")
	out := CPPBlock(p, "", 0)
	if strings.Contains(out, "#pragma") {
		t.Errorf("CPPBlock() = %q, expected no pragma without UseMeta", out)
	}
}

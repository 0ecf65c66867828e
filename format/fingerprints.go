package format

import (
	"fmt"
	"strings"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

// CPPBlock renders p as a CPP manifest fragment (§6.6): optional
// #pragma LCFG derive/context lines (when UseMeta is set and the fields are
// present) followed by the canonical spec line.
func CPPBlock(p *pkgspec.Package, defaultArch string, opts Options) string {
	var b strings.Builder
	if opts.Has(UseMeta) {
		if p.HasDerivation() {
			fmt.Fprintf(&b, "#pragma LCFG derive %q\n", p.Derivation())
		}
		if p.HasContext() {
			fmt.Fprintf(&b, "#pragma LCFG context %q\n", p.Context())
		}
	}
	b.WriteString(Spec(p, defaultArch, opts&^Newline))
	b.WriteByte('\n')
	return b.String()
}

// XML renders p as a minimal self-closing XML element (§6.6), with
// attributes omitted when the corresponding field is absent.
func XML(p *pkgspec.Package, defaultArch string, opts Options) string {
	var b strings.Builder
	b.WriteString("<package")
	fmt.Fprintf(&b, " name=%q", p.Name())
	if p.HasVersion() {
		fmt.Fprintf(&b, " version=%q", p.Version())
	}
	if p.HasRelease() {
		fmt.Fprintf(&b, " release=%q", p.Release())
	}
	if p.HasArch() && p.Arch() != defaultArch {
		fmt.Fprintf(&b, " arch=%q", p.Arch())
	}
	if p.HasFlags() {
		fmt.Fprintf(&b, " flags=%q", p.Flags())
	}
	if p.HasContext() && !opts.Has(NoContext) {
		fmt.Fprintf(&b, " context=%q", p.Context())
	}
	b.WriteString("/>")
	if opts.Has(Newline) {
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary renders a short human-readable one-liner (§6.6): "name-version-
// release (arch) [flags]", trailing parts omitted when absent.
func Summary(p *pkgspec.Package, defaultArch string, opts Options) string {
	var b strings.Builder
	b.WriteString(p.Name())
	b.WriteByte('-')
	b.WriteString(p.FullVersion())
	if p.HasArch() && p.Arch() != defaultArch {
		fmt.Fprintf(&b, " (%s)", p.Arch())
	}
	if p.HasFlags() {
		fmt.Fprintf(&b, " [%s]", p.Flags())
	}
	if opts.Has(Newline) {
		b.WriteByte('\n')
	}
	return b.String()
}

// ShellEval renders p as a block of shell variable assignments (§6.6),
// suitable for `eval`-ing in a POSIX shell build script.
func ShellEval(p *pkgspec.Package, defaultArch string, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LCFG_PKG_NAME=%s\n", shellQuote(p.Name()))
	fmt.Fprintf(&b, "LCFG_PKG_VERSION=%s\n", shellQuote(p.Version()))
	fmt.Fprintf(&b, "LCFG_PKG_RELEASE=%s\n", shellQuote(p.Release()))
	arch := p.Arch()
	if arch == "" {
		arch = defaultArch
	}
	fmt.Fprintf(&b, "LCFG_PKG_ARCH=%s\n", shellQuote(arch))
	fmt.Fprintf(&b, "LCFG_PKG_FLAGS=%s\n", shellQuote(p.Flags()))
	if !opts.Has(NoContext) {
		fmt.Fprintf(&b, "LCFG_PKG_CONTEXT=%s\n", shellQuote(p.Context()))
	}
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package format

import (
	"strings"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

// Spec renders p in the canonical spec-line grammar (§6.1):
//
//	[PREFIX]NAME-VERSION-RELEASE[/ARCH][:FLAGS][[CONTEXT]]
//
// ARCH is emitted only when present and different from defaultArch; PREFIX
// and CONTEXT are suppressed by NoPrefix/NoContext; a trailing newline is
// appended when Newline is set.
func Spec(p *pkgspec.Package, defaultArch string, opts Options) string {
	var b strings.Builder

	if p.HasPrefix() && !opts.Has(NoPrefix) {
		b.WriteByte(byte(p.Prefix()))
	}

	b.WriteString(p.Name())
	b.WriteByte('-')
	b.WriteString(p.FullVersion())

	if p.HasArch() && p.Arch() != defaultArch {
		b.WriteByte('/')
		b.WriteString(p.Arch())
	}

	if p.HasFlags() {
		b.WriteByte(':')
		b.WriteString(p.Flags())
	}

	if p.HasContext() && !opts.Has(NoContext) {
		b.WriteByte('[')
		b.WriteString(p.Context())
		b.WriteByte(']')
	}

	if opts.Has(Newline) {
		b.WriteByte('\n')
	}

	return b.String()
}

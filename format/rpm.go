package format

import (
	"fmt"
	"strings"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

// RPMFilename renders p as NAME-VERSION-RELEASE.ARCH.rpm (§6.3). All four
// fields must be present and non-empty.
func RPMFilename(p *pkgspec.Package) (string, error) {
	if p.Name() == "" || p.Version() == "" || p.Release() == "" || p.Arch() == "" {
		return "", fmt.Errorf("format: RPM filename requires name, version, release and arch")
	}
	return fmt.Sprintf("%s-%s-%s.%s.rpm", p.Name(), p.Version(), p.Release(), p.Arch()), nil
}

// ParseRPMFilename parses an RPM-style filename back into a *pkgspec.Package
// by walking backward: strip the ".rpm" suffix, split on the last '.' for
// ARCH, then split twice on '-' for RELEASE and VERSION; the remainder is
// NAME.
func ParseRPMFilename(filename string) (*pkgspec.Package, error) {
	const suffix = ".rpm"
	if !strings.HasSuffix(filename, suffix) {
		return nil, fmt.Errorf("format: %q is not an .rpm filename", filename)
	}
	rest := strings.TrimSuffix(filename, suffix)

	dot := strings.LastIndexByte(rest, '.')
	if dot < 0 {
		return nil, fmt.Errorf("format: %q has no arch component", filename)
	}
	arch := rest[dot+1:]
	rest = rest[:dot]

	dash := strings.LastIndexByte(rest, '-')
	if dash < 0 {
		return nil, fmt.Errorf("format: %q has no release component", filename)
	}
	release := rest[dash+1:]
	rest = rest[:dash]

	dash = strings.LastIndexByte(rest, '-')
	if dash < 0 {
		return nil, fmt.Errorf("format: %q has no version component", filename)
	}
	version := rest[dash+1:]
	name := rest[:dash]

	if name == "" || version == "" || release == "" || arch == "" {
		return nil, fmt.Errorf("format: %q has an empty component", filename)
	}

	p := pkgspec.New()
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetVersion(version); err != nil {
		return nil, err
	}
	if err := p.SetRelease(release); err != nil {
		return nil, err
	}
	if err := p.SetArch(arch); err != nil {
		return nil, err
	}
	return p, nil
}

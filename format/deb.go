package format

import (
	"fmt"
	"strings"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

// debArchMap carries the default rpm-world → debian-world architecture
// spellings named in §6.5.
var debArchMap = map[string]string{
	"x86_64": "amd64",
	"noarch": "all",
}

// DebFilename renders p as NAME_VERSION[-RELEASE]_ARCH.deb (§6.5). Any
// epoch prefix ("N:") on the version is stripped, and an arch matching
// debArchMap is translated to its debian spelling.
func DebFilename(p *pkgspec.Package) (string, error) {
	if p.Name() == "" || p.Version() == "" || p.Arch() == "" {
		return "", fmt.Errorf("format: deb filename requires name, version and arch")
	}
	version := stripEpoch(p.Version())
	arch := p.Arch()
	if mapped, ok := debArchMap[arch]; ok {
		arch = mapped
	}

	var b strings.Builder
	b.WriteString(p.Name())
	b.WriteByte('_')
	b.WriteString(version)
	if p.HasRelease() {
		b.WriteByte('-')
		b.WriteString(p.Release())
	}
	b.WriteByte('_')
	b.WriteString(arch)
	b.WriteString(".deb")
	return b.String(), nil
}

func stripEpoch(version string) string {
	if idx := strings.IndexByte(version, ':'); idx >= 0 {
		return version[idx+1:]
	}
	return version
}

// ParseDebFilename parses NAME_VERSION[-RELEASE]_ARCH.deb back into a
// *pkgspec.Package. The arch is taken verbatim (no reverse debian→rpm
// mapping is defined by §6.5).
func ParseDebFilename(filename string) (*pkgspec.Package, error) {
	const suffix = ".deb"
	if !strings.HasSuffix(filename, suffix) {
		return nil, fmt.Errorf("format: %q is not a .deb filename", filename)
	}
	rest := strings.TrimSuffix(filename, suffix)

	parts := strings.Split(rest, "_")
	if len(parts) != 3 {
		return nil, fmt.Errorf("format: %q does not have the NAME_VERSION_ARCH shape", filename)
	}
	name, versionRelease, arch := parts[0], parts[1], parts[2]

	version := versionRelease
	release := ""
	if idx := strings.LastIndexByte(versionRelease, '-'); idx >= 0 {
		version = versionRelease[:idx]
		release = versionRelease[idx+1:]
	}

	if name == "" || version == "" || arch == "" {
		return nil, fmt.Errorf("format: %q has an empty component", filename)
	}

	p := pkgspec.New()
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetVersion(version); err != nil {
		return nil, err
	}
	if release != "" {
		if err := p.SetRelease(release); err != nil {
			return nil, err
		}
	}
	if err := p.SetArch(arch); err != nil {
		return nil, err
	}
	return p, nil
}

package pkgspec

import (
	"fmt"
	"strings"
)

// ParseError is returned by Parse on malformed input. It carries a
// human-readable message naming the field that failed, if known.
type ParseError struct {
	Line    string
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parsing %q: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("parsing %q: %s", e.Line, e.Message)
}

func parseErr(line, field, msg string) *ParseError {
	return &ParseError{Line: line, Field: field, Message: msg}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Parse implements the spec.md §4.2/§6.1 grammar:
//
//	spec := [PREFIX] [ARCH2 "/"] NAME "-" VERSION "-" RELEASE ["/" ARCH1] [":" FLAGS] ["[" CONTEXT "]"]
//
// line must already be trimmed. Parse performs the documented left-to-right
// then right-to-left scan; the first validation failure aborts with a
// field-specific *ParseError. Prefix semantics are not interpreted here; the
// prefix becomes a plain attribute of the returned Package.
func Parse(line string) (*Package, error) {
	return ParseWithContext(line, nil)
}

// ParseWithContext is Parse, but validates the CONTEXT field (if present)
// with validate instead of the permissive default.
func ParseWithContext(line string, validate ContextValidator) (*Package, error) {
	orig := line
	rest := line

	p := New()

	// Step 1: optional leading PREFIX, only when the first character is
	// non-word.
	if len(rest) > 0 && !isWordChar(rest[0]) {
		if validPrefix(rest[0]) {
			if err := p.SetPrefix(Prefix(rest[0])); err != nil {
				return nil, parseErr(orig, "prefix", err.Error())
			}
			rest = rest[1:]
		} else {
			return nil, parseErr(orig, "prefix", fmt.Sprintf("invalid leading character %q", rest[0]))
		}
	}

	// Step 2: forward scan for ARCH2 "/" — word characters up to the first
	// '/'.
	var arch2 string
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		candidate := rest[:idx]
		if candidate != "" && allWordChars(candidate) {
			arch2 = candidate
			rest = rest[idx+1:]
		}
	}

	// Step 3: backward scan for CONTEXT "[...]".
	var context string
	hasContext := false
	if strings.HasSuffix(rest, "]") {
		open := strings.LastIndexByte(rest, '[')
		if open < 0 {
			return nil, parseErr(orig, "context", "unmatched ']'")
		}
		context = rest[open+1 : len(rest)-1]
		hasContext = true
		rest = rest[:open]
	}

	// Step 4: backward scan for FLAGS ":..." — only if the ':' appears
	// before any remaining '/' or '-'.
	var flags string
	hasFlags := false
	if idx := strings.LastIndexByte(rest, ':'); idx >= 0 {
		tail := rest[idx+1:]
		if !strings.ContainsAny(tail, "/-") {
			flags = tail
			hasFlags = true
			rest = rest[:idx]
		}
	}

	// Step 5: backward scan for ARCH1 "/...". If ARCH2 was set, ARCH1 is
	// discarded; else it is used.
	var arch1 string
	if idx := strings.LastIndexByte(rest, '/'); idx >= 0 {
		arch1 = rest[idx+1:]
		rest = rest[:idx]
	}

	// Step 6: backward-required "-RELEASE" then "-VERSION".
	idx := strings.LastIndexByte(rest, '-')
	if idx < 0 {
		return nil, parseErr(orig, "release", "missing '-RELEASE'")
	}
	release := rest[idx+1:]
	rest = rest[:idx]
	if release == "" {
		return nil, parseErr(orig, "release", "empty release")
	}

	idx = strings.LastIndexByte(rest, '-')
	if idx < 0 {
		return nil, parseErr(orig, "version", "missing '-VERSION'")
	}
	version := rest[idx+1:]
	name := rest[:idx]
	if version == "" {
		return nil, parseErr(orig, "version", "empty version")
	}

	// Step 7: remainder is NAME.
	if name == "" {
		return nil, parseErr(orig, "name", "empty name")
	}

	if err := p.SetName(name); err != nil {
		return nil, parseErr(orig, "name", err.Error())
	}
	if err := p.SetVersion(version); err != nil {
		return nil, parseErr(orig, "version", err.Error())
	}
	if err := p.SetRelease(release); err != nil {
		return nil, parseErr(orig, "release", err.Error())
	}

	arch := arch2
	if arch == "" {
		arch = arch1
	}
	if err := p.SetArch(arch); err != nil {
		return nil, parseErr(orig, "arch", err.Error())
	}

	if hasFlags {
		if err := p.SetFlags(flags); err != nil {
			return nil, parseErr(orig, "flags", err.Error())
		}
	}

	if hasContext {
		if err := p.SetContext(context, validate); err != nil {
			return nil, parseErr(orig, "context", err.Error())
		}
	}

	return p, nil
}

func allWordChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWordChar(s[i]) {
			return false
		}
	}
	return true
}

package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/sjquinney/lcfg-core/format"
	"github.com/sjquinney/lcfg-core/pkgspec"
)

// Config controls a ConsumeCPP or ConsumeDebianIndex pass.
type Config struct {
	// DefaultArch is applied to any record that parses without an arch.
	DefaultArch string
	// Options is the §6.7 bitmask shared with format.
	Options format.Options
	// Listener, if non-nil, receives a structured event per notable step.
	Listener Listener
	// Dependencies, if non-nil, accumulates the deduplicated set of file
	// names named by CPP "entry" line directives.
	Dependencies *[]string
}

func (c Config) emit(e fmt.Stringer) {
	if c.Listener != nil {
		c.Listener(e)
	}
}

var lineDirectiveRe = regexp.MustCompile(`^#\s*(\d+)\s+"([^"]*)"\s*(.*)$`)

// parseLineDirective recognizes a GCC/CPP-style line marker:
// # <lineno> "<file>" <flags...>. The returned entry flag is true when flag
// "1" (entering a new file) is present.
func parseLineDirective(line string) (lineno int, file string, entry bool, ok bool) {
	m := lineDirectiveRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false, false
	}
	for _, f := range strings.Fields(m[3]) {
		if f == "1" {
			entry = true
		}
	}
	return n, m[2], entry, true
}

var pragmaRe = regexp.MustCompile(`^#pragma\s+LCFG\s+(derive|context|category)\s+"([^"]*)"\s*$`)

// carryForward is the loop-local metadata a #pragma LCFG directive updates,
// consumed the next time a spec line is encountered (spec.md §9: this must
// not be global state).
type carryForward struct {
	derivation string
	context    string
	category   string
}

func (c *carryForward) has() bool {
	return c.derivation != "" || c.context != "" || c.category != ""
}

// applyPragma updates carry from a recognized #pragma LCFG line, returning
// false if line is not such a pragma.
func applyPragma(line string, carry *carryForward, cfg Config) bool {
	m := pragmaRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if !cfg.Options.Has(format.UseMeta) {
		return true
	}
	kind, value := m[1], m[2]
	switch kind {
	case "derive":
		carry.derivation = value
	case "context":
		carry.context = value
	case "category":
		carry.category = value
	}
	cfg.emit(EventPragma{Kind: kind, Value: value})
	return true
}

// appendDependency appends file to *deps if not already present.
func appendDependency(deps *[]string, file string) {
	if deps == nil || file == "" {
		return
	}
	for _, d := range *deps {
		if d == file {
			return
		}
	}
	*deps = append(*deps, file)
}

// ConsumeCPP implements the §4.6 ingestion loop over a CPP-processed
// manifest stream: blank lines are skipped, '#' lines dispatch to line
// directives or #pragma LCFG metadata updates, and every other non-empty
// line is parsed as a spec and merged into sink. The first parse or merge
// error aborts the pass and is returned prefixed with "<file>:<line>: ".
func ConsumeCPP(r io.Reader, sink MergeSink, cfg Config) (pkgspec.Change, error) {
	if cfg.Options.Has(format.AllContexts) {
		widenPrimaryKeyForContext(sink)
	}

	scanner := bufio.NewScanner(r)
	var carry carryForward
	currentFile := ""
	currentLine := 0
	modified := false

	for scanner.Scan() {
		currentLine++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if lineno, file, entry, ok := parseLineDirective(line); ok {
				currentFile = file
				currentLine = lineno - 1
				if entry {
					appendDependency(cfg.Dependencies, file)
				}
				cfg.emit(EventDirective{File: file, Line: lineno, Entry: entry})
				continue
			}
			if applyPragma(line, &carry, cfg) {
				continue
			}
			cfg.emit(EventSkipped{File: currentFile, Line: currentLine, Reason: "unrecognized '#' line"})
			continue
		}

		p, err := pkgspec.Parse(line)
		if err != nil {
			return pkgspec.ChangeError, fmt.Errorf("%s:%d: %w", currentFile, currentLine, err)
		}

		if !p.HasArch() && cfg.DefaultArch != "" {
			if err := p.SetArch(cfg.DefaultArch); err != nil {
				return pkgspec.ChangeError, fmt.Errorf("%s:%d: %w", currentFile, currentLine, err)
			}
		}

		if cfg.Options.Has(format.UseMeta) {
			switch {
			case carry.has():
				if carry.derivation != "" {
					p.SetDerivation(carry.derivation)
				}
				if carry.context != "" && !p.HasContext() {
					if err := p.SetContext(carry.context, nil); err != nil {
						return pkgspec.ChangeError, fmt.Errorf("%s:%d: %w", currentFile, currentLine, err)
					}
				}
				if carry.category != "" {
					p.AppendDerivation("category:" + carry.category)
				}
			default:
				p.SetDerivation(fmt.Sprintf("%s:%d", currentFile, currentLine))
			}
		}

		change, err := sink.MergePackage(p)
		if err != nil {
			return pkgspec.ChangeError, fmt.Errorf("%s:%d: %w", currentFile, currentLine, err)
		}
		cfg.emit(EventMerged{File: currentFile, Line: currentLine, Package: p.ID(), Change: change.String()})
		if change != pkgspec.ChangeNone {
			modified = true
		}
	}
	if err := scanner.Err(); err != nil {
		return pkgspec.ChangeError, fmt.Errorf("%s: %w", currentFile, err)
	}

	if modified {
		return pkgspec.ChangeModified, nil
	}
	return pkgspec.ChangeNone, nil
}

package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sjquinney/lcfg-core/pkgspec"
)

// ConsumeDebianIndex implements §6.4: blank-line-separated stanzas of
// "Package: NAME" / "Version: V" / "Architecture: A" lines, each stanza
// ending a record that is merged into sink on a blank line or EOF. This
// adapts the teacher's parseControlFile fold/flush state machine
// (deb/util.go) to LCFG's flatter three-field stanza grammar.
func ConsumeDebianIndex(r io.Reader, sink MergeSink, cfg Config) (pkgspec.Change, error) {
	scanner := bufio.NewScanner(r)
	modified := false
	stanzaIndex := 0

	var name, version, arch string
	hasContent := false

	flush := func() error {
		if !hasContent {
			return nil
		}
		stanzaIndex++
		hasContent = false
		defer func() { name, version, arch = "", "", "" }()

		if name == "" {
			return fmt.Errorf("stanza %d: missing Package field", stanzaIndex)
		}

		p := pkgspec.New()
		if err := p.SetName(name); err != nil {
			return fmt.Errorf("stanza %d: %w", stanzaIndex, err)
		}
		if version != "" {
			if err := p.SetVersion(version); err != nil {
				return fmt.Errorf("stanza %d: %w", stanzaIndex, err)
			}
		}
		if arch != "" {
			if err := p.SetArch(arch); err != nil {
				return fmt.Errorf("stanza %d: %w", stanzaIndex, err)
			}
		} else if cfg.DefaultArch != "" {
			if err := p.SetArch(cfg.DefaultArch); err != nil {
				return fmt.Errorf("stanza %d: %w", stanzaIndex, err)
			}
		}

		change, err := sink.MergePackage(p)
		if err != nil {
			return fmt.Errorf("stanza %d: %w", stanzaIndex, err)
		}
		cfg.emit(EventStanza{Index: stanzaIndex, Package: p.ID(), Change: change.String()})
		if change != pkgspec.ChangeNone {
			modified = true
		}
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if err := flush(); err != nil {
				return pkgspec.ChangeError, err
			}
			continue
		}
		hasContent = true
		key, val, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "Package":
			name = val
		case "Version":
			version = val
		case "Architecture":
			arch = val
		}
	}
	if err := scanner.Err(); err != nil {
		return pkgspec.ChangeError, err
	}
	if err := flush(); err != nil {
		return pkgspec.ChangeError, err
	}

	if modified {
		return pkgspec.ChangeModified, nil
	}
	return pkgspec.ChangeNone, nil
}

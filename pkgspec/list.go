package pkgspec

import (
	"fmt"
	"sort"
	"strings"
)

// List is an ordered, insertion-ordered sequence of Packages with a
// configurable merge-rule bitmask and primary-key mask. It is the
// implementation of spec.md §3.2/§4.3/§4.4.
type List struct {
	MergeRules MergeRules
	PrimaryKey PrimaryKey
	Comparator VersionComparator

	items []*Package

	// Listener, if set, receives a structured event for every accepted
	// mutation, the ambient "logging" mechanism this module carries from
	// the teacher's manifest.Listener pattern (see SPEC_FULL.md §9).
	Listener func(fmt.Stringer)
}

// NewList creates an empty List with the given rules and the default
// primary key (NAME|ARCH).
func NewList(rules MergeRules) *List {
	return &List{MergeRules: rules, PrimaryKey: DefaultPrimaryKey}
}

// Len returns the number of packages currently in the list.
func (l *List) Len() int { return len(l.items) }

// Head returns the first package, or nil if the list is empty.
func (l *List) Head() *Package {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0]
}

// Tail returns the last package, or nil if the list is empty.
func (l *List) Tail() *Package {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[len(l.items)-1]
}

// Items returns the list's packages in order. The returned slice aliases
// internal storage and must not be mutated.
func (l *List) Items() []*Package { return l.items }

// Append adds p to the end of the list unconditionally and retains it.
func (l *List) Append(p *Package) {
	p.Retain()
	l.items = append(l.items, p)
	l.emit(&eventAdded{Package: p.ID()})
}

func (l *List) removeAt(i int) *Package {
	p := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	p.ReleaseRef()
	return p
}

// FindNode returns the index of the first package matching name and arch
// ("*" matches any arch; empty/absent arch matches only records without an
// arch), or -1 if none matches.
func (l *List) FindNode(name, arch string) int {
	for i, p := range l.items {
		if !strings.EqualFold(p.name, name) {
			continue
		}
		if arch == "*" {
			return i
		}
		if arch == "" {
			if p.arch == "" {
				return i
			}
			continue
		}
		if p.arch == arch {
			return i
		}
	}
	return -1
}

// Find returns the first package matching name and arch, or nil.
func (l *List) Find(name, arch string) *Package {
	if i := l.FindNode(name, arch); i >= 0 {
		return l.items[i]
	}
	return nil
}

// Contains reports whether a package matching name and arch is present.
func (l *List) Contains(name, arch string) bool { return l.FindNode(name, arch) >= 0 }

// Sort stably orders the list by Package.Compare using l.Comparator.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Compare(l.items[j], l.Comparator) < 0
	})
}

// Match returns a new list (sharing the same rule configuration) of the
// records matching the supplied globs on name/arch/version/release. An
// empty glob means "don't filter on that field". Invalid records are
// skipped.
func (l *List) Match(nameGlob, archGlob, versionGlob, releaseGlob string) *List {
	out := NewList(l.MergeRules)
	out.PrimaryKey = l.PrimaryKey
	out.Comparator = l.Comparator
	for _, p := range l.items {
		if !p.IsValid() {
			continue
		}
		if nameGlob != "" {
			if ok, _ := globMatch(nameGlob, p.name); !ok {
				continue
			}
		}
		if archGlob != "" {
			if ok, _ := globMatch(archGlob, p.arch); !ok {
				continue
			}
		}
		if versionGlob != "" {
			if ok, _ := globMatch(versionGlob, p.version); !ok {
				continue
			}
		}
		if releaseGlob != "" {
			if ok, _ := globMatch(releaseGlob, p.release); !ok {
				continue
			}
		}
		out.Append(p)
	}
	return out
}

// SearchPattern is a single field pattern for Search: an optional leading
// '^' anchors to the start, an optional trailing '$' anchors to the end;
// both anchors means exact match, neither means substring match.
type SearchPattern string

func (sp SearchPattern) matches(value string) bool {
	s := string(sp)
	if s == "" {
		return true
	}
	anchorStart := strings.HasPrefix(s, "^")
	anchorEnd := strings.HasSuffix(s, "$")
	core := s
	if anchorStart {
		core = core[1:]
	}
	if anchorEnd && len(core) > 0 {
		core = core[:len(core)-1]
	}
	switch {
	case anchorStart && anchorEnd:
		return value == core
	case anchorStart:
		return strings.HasPrefix(value, core)
	case anchorEnd:
		return strings.HasSuffix(value, core)
	default:
		return strings.Contains(value, core)
	}
}

// Search returns a new list of records whose fields match the given
// anchored patterns. An empty pattern matches everything for that field.
func (l *List) Search(name, arch, version, release SearchPattern) *List {
	out := NewList(l.MergeRules)
	out.PrimaryKey = l.PrimaryKey
	out.Comparator = l.Comparator
	for _, p := range l.items {
		if !p.IsValid() {
			continue
		}
		if !name.matches(p.name) || !arch.matches(p.arch) || !version.matches(p.version) || !release.matches(p.release) {
			continue
		}
		out.Append(p)
	}
	return out
}

func (l *List) emit(e fmt.Stringer) {
	if l.Listener != nil {
		l.Listener(e)
	}
}

// keyMatch reports whether a and b share the same primary key under k:
// names equal (case-sensitive), and — if the corresponding bit is set —
// arches equal (missing arch treated as "") and/or context strings equal
// (missing treated as "").
func keyMatch(k PrimaryKey, a, b *Package) bool {
	if a.name != b.name {
		return false
	}
	if k.Has(KeyArch) && a.arch != b.arch {
		return false
	}
	if k.Has(KeyCtx) && a.context != b.context {
		return false
	}
	return true
}

// MergePackage is the algebraic heart of the core (spec.md §4.4). It merges
// newPkg into l according to l.MergeRules and l.PrimaryKey, in the
// contractual rule order: identity short-circuit, prefix rule, no-existing,
// squash-identical, keep-all, replace, use-priority, final conflict.
func (l *List) MergePackage(newPkg *Package) (Change, error) {
	if newPkg == nil || !newPkg.IsValid() {
		return ChangeError, newError(KindInvalidInput, "cannot merge an invalid package")
	}

	existingIdx := -1
	for i, p := range l.items {
		if keyMatch(l.PrimaryKey, p, newPkg) {
			existingIdx = i
			break
		}
	}

	var existing *Package
	if existingIdx >= 0 {
		existing = l.items[existingIdx]
	}

	// Identity short-circuit.
	if existing == newPkg {
		return ChangeNone, nil
	}

	// Prefix rule.
	if l.MergeRules.Has(RuleUsePrefix) {
		if existing != nil && existing.prefix == PrefixPin {
			return ChangeError, newError(KindConflict, "Version is pinned").withPackage(newPkg.ID())
		}
		if newPkg.prefix != PrefixNone {
			switch newPkg.prefix {
			case PrefixRemove:
				if existing != nil {
					l.removeAt(existingIdx)
					l.emit(&eventRemoved{Package: existing.ID()})
					return ChangeRemoved, nil
				}
				return ChangeNone, nil
			case PrefixAdd, PrefixPin:
				if existing != nil {
					l.removeAt(existingIdx)
				}
				l.Append(newPkg)
				if existing != nil {
					return ChangeReplaced, nil
				}
				return ChangeAdded, nil
			case PrefixSoftAdd:
				if existing == nil {
					l.Append(newPkg)
					return ChangeAdded, nil
				}
				return ChangeNone, nil
			case PrefixAddOnly:
				if existing != nil {
					l.removeAt(existingIdx)
					l.Append(newPkg)
					return ChangeReplaced, nil
				}
				return ChangeNone, nil
			default:
				return ChangeError, newError(KindInvalidInput, "Invalid prefix").withPackage(newPkg.ID())
			}
		}
		// newPkg has no prefix: fall through to the remaining rules.
	}

	// No existing record.
	if existing == nil {
		l.Append(newPkg)
		return ChangeAdded, nil
	}

	// Squash identical.
	if l.MergeRules.Has(RuleSquashIdentical) && existing.Equal(newPkg) {
		l.removeAt(existingIdx)
		l.Append(newPkg)
		return ChangeReplaced, nil
	}

	// Keep all.
	if l.MergeRules.Has(RuleKeepAll) {
		l.Append(newPkg)
		return ChangeAdded, nil
	}

	// Replace.
	if l.MergeRules.Has(RuleReplace) {
		l.removeAt(existingIdx)
		l.Append(newPkg)
		return ChangeReplaced, nil
	}

	// Priority.
	if l.MergeRules.Has(RuleUsePriority) {
		switch {
		case newPkg.priority > existing.priority:
			l.removeAt(existingIdx)
			l.Append(newPkg)
			return ChangeReplaced, nil
		case newPkg.priority < existing.priority:
			return ChangeNone, nil
		default:
			return ChangeError, newError(KindConflict, "Version conflict").withPackage(newPkg.ID())
		}
	}

	return ChangeError, newError(KindConflict, "Version conflict").withPackage(newPkg.ID())
}

// MergeList merges every valid package of src into l in order. Invalid
// records in src are silently skipped. The first ERROR is terminal;
// otherwise the aggregate result is MODIFIED if any sub-merge returned
// non-NONE, else NONE.
func (l *List) MergeList(src *List) (Change, error) {
	modified := false
	for _, p := range src.items {
		if !p.IsValid() {
			continue
		}
		c, err := l.MergePackage(p)
		if err != nil {
			return ChangeError, err
		}
		if c != ChangeNone {
			modified = true
		}
	}
	if modified {
		return ChangeModified, nil
	}
	return ChangeNone, nil
}

type eventAdded struct{ Package string }

func (e *eventAdded) String() string { return fmt.Sprintf(`{"added":%q}`, e.Package) }

type eventRemoved struct{ Package string }

func (e *eventRemoved) String() string { return fmt.Sprintf(`{"removed":%q}`, e.Package) }

package pkgspec

import "sort"

const (
	setInitialCapacity = 16
	setMaxLoadFactor   = 0.7
)

// djbHash is the hash function used to place a package name's List into the
// Set's open-addressed table. It is the classic djb2 string hash: cheap,
// well distributed over short ASCII names, and deterministic across
// processes, which print-order stability (spec.md §8) depends on.
func djbHash(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

type setSlot struct {
	key    string
	list   *List
	filled bool
	// tombstone marks a slot vacated by removal; probing must continue
	// past it, but insertion may reuse it.
	tombstone bool
}

// Set is a hash-indexed collection of Lists, one per distinct package name,
// implemented as open addressing with linear probing rather than a builtin
// map: the probe sequence and resize behavior are part of this package's
// testable contract (spec.md §8 "Set probe termination", "Set resize
// preserves contents"), not an incidental implementation detail to hide
// behind Go's map.
type Set struct {
	MergeRules MergeRules
	PrimaryKey PrimaryKey
	Comparator VersionComparator

	slots []setSlot
	count int // filled, non-tombstone slots
}

// NewSet creates an empty Set with the given merge rules and the default
// primary key.
func NewSet(rules MergeRules) *Set {
	return &Set{
		MergeRules: rules,
		PrimaryKey: DefaultPrimaryKey,
		slots:      make([]setSlot, setInitialCapacity),
	}
}

// Size returns the total number of records held across every List, not the
// number of distinct names (spec.md §4.5: "size sums list sizes").
func (s *Set) Size() int {
	total := 0
	for _, slot := range s.slots {
		if slot.filled {
			total += slot.list.Len()
		}
	}
	return total
}

// find returns the slot index holding key, or (-1, insertion index) if
// absent: the second value is where a new entry for key should land (the
// first tombstone or empty slot seen along the probe sequence).
func (s *Set) find(key string) (found int, insertAt int) {
	n := len(s.slots)
	start := int(djbHash(key)) % n
	insertAt = -1
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		slot := &s.slots[idx]
		if !slot.filled && !slot.tombstone {
			if insertAt < 0 {
				insertAt = idx
			}
			return -1, insertAt
		}
		if slot.tombstone {
			if insertAt < 0 {
				insertAt = idx
			}
			continue
		}
		if slot.key == key {
			return idx, idx
		}
	}
	return -1, insertAt
}

func (s *Set) grow() {
	old := s.slots
	s.slots = make([]setSlot, len(old)*2)
	s.count = 0
	for _, slot := range old {
		if slot.filled {
			_, at := s.find(slot.key)
			s.slots[at] = setSlot{key: slot.key, list: slot.list, filled: true}
			s.count++
		}
	}
}

func (s *Set) maybeGrow() {
	if float64(s.count+1) > float64(len(s.slots))*setMaxLoadFactor {
		s.grow()
	}
}

// listFor returns the List for name, creating one (and growing the table
// first if the load factor would be exceeded) if absent.
func (s *Set) listFor(name string) *List {
	if found, _ := s.find(name); found >= 0 {
		return s.slots[found].list
	}
	s.maybeGrow()
	_, at := s.find(name)
	l := NewList(s.MergeRules)
	l.PrimaryKey = s.PrimaryKey
	l.Comparator = s.Comparator
	s.slots[at] = setSlot{key: name, list: l, filled: true}
	s.count++
	return l
}

// FindList returns the List holding records named name, or nil if the Set
// holds no List for that name (never inserted, removed, or emptied by a
// merge).
func (s *Set) FindList(name string) *List {
	if found, _ := s.find(name); found >= 0 {
		return s.slots[found].list
	}
	return nil
}

// FindPackage looks up a single record by name and arch.
func (s *Set) FindPackage(name, arch string) *Package {
	l := s.FindList(name)
	if l == nil {
		return nil
	}
	return l.Find(name, arch)
}

// MergePackage routes newPkg to the List for its name (creating one if
// necessary) and merges it there under that List's rules.
func (s *Set) MergePackage(newPkg *Package) (Change, error) {
	if newPkg == nil || !newPkg.IsValid() {
		return ChangeError, newError(KindInvalidInput, "cannot merge an invalid package")
	}
	l := s.listFor(newPkg.name)
	change, err := l.MergePackage(newPkg)
	if err != nil {
		return change, err
	}
	if l.Len() == 0 {
		found, _ := s.find(newPkg.name)
		if found >= 0 {
			s.slots[found] = setSlot{tombstone: true}
			s.count--
		}
	}
	return change, nil
}

// MergeList merges every valid record of src into the Set, each routed to
// the List for its own name.
func (s *Set) MergeList(src *List) (Change, error) {
	modified := false
	for _, p := range src.items {
		if !p.IsValid() {
			continue
		}
		c, err := s.MergePackage(p)
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

// MergeSet merges every record of src into s.
func (s *Set) MergeSet(src *Set) (Change, error) {
	modified := false
	for _, l := range src.Lists() {
		c, err := s.MergeList(l)
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

// Lists returns the Set's per-name Lists in unspecified (bucket) order.
func (s *Set) Lists() []*List {
	out := make([]*List, 0, s.count)
	for _, slot := range s.slots {
		if slot.filled {
			out = append(out, slot.list)
		}
	}
	return out
}

// Names returns the distinct package names held, sorted ascending, so the
// order does not depend on bucket placement.
func (s *Set) Names() []string {
	out := make([]string, 0, s.count)
	for _, slot := range s.slots {
		if slot.filled {
			out = append(out, slot.key)
		}
	}
	sort.Strings(out)
	return out
}

// Match returns every record across every List matching the given globs,
// sorted by name for deterministic output.
func (s *Set) Match(nameGlob, archGlob, versionGlob, releaseGlob string) []*Package {
	var out []*Package
	for _, name := range s.Names() {
		l := s.FindList(name)
		for _, p := range l.Match(nameGlob, archGlob, versionGlob, releaseGlob).items {
			out = append(out, p)
		}
	}
	return out
}

// Remove drops the List for name entirely (releasing every package it
// holds), tombstoning its slot so later probes for other keys still
// terminate correctly.
func (s *Set) Remove(name string) bool {
	found, _ := s.find(name)
	if found < 0 {
		return false
	}
	for _, p := range s.slots[found].list.items {
		p.ReleaseRef()
	}
	s.slots[found] = setSlot{tombstone: true}
	s.count--
	return true
}

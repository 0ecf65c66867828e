package pkgspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
)

// Prefix is a single-character operator on a spec line instructing the
// merge engine how to reconcile a conflicting existing record.
type Prefix byte

const (
	PrefixNone    Prefix = 0
	PrefixAdd     Prefix = '+'
	PrefixRemove  Prefix = '-'
	PrefixPin     Prefix = '='
	PrefixAddOnly Prefix = '?'
	PrefixSoftAdd Prefix = '~'
)

func validPrefix(b byte) bool {
	switch Prefix(b) {
	case PrefixAdd, PrefixRemove, PrefixPin, PrefixAddOnly, PrefixSoftAdd:
		return true
	default:
		return false
	}
}

var (
	nameRe    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.+\-]*$`)
	archRe    = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
	flagsRe   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	versionRe = regexp.MustCompile(`^[^\s\-]+$`)
)

// ContextValidator validates a context expression string. The core treats
// context-expression grammar as an external concern; callers supply a
// validator (or use AllowAnyContext, the permissive default).
type ContextValidator func(expr string) bool

// AllowAnyContext is the permissive ContextValidator used when the caller
// has no opinion on context-expression grammar: any string without a NUL
// byte is accepted.
func AllowAnyContext(expr string) bool { return !strings.ContainsAny(expr, "\x00") }

// Package is the value object at the center of the core: a package name,
// optional arch/version/release/flags/context, a provenance trail
// (derivation), a merge-time prefix operator, and a priority assigned by a
// ContextEvaluator. The zero value is an empty, invalid (no name) record.
type Package struct {
	name       string
	arch       string
	version    string
	release    string
	flags      string
	context    string
	derivation string
	prefix     Prefix
	priority   int

	refCount atomic.Int32
}

// New creates an empty Package with default field values.
func New() *Package { return &Package{} }

// Clone returns a deep copy of p: every string field plus prefix and
// priority, with a fresh reference count.
func (p *Package) Clone() *Package {
	c := &Package{
		name:       p.name,
		arch:       p.arch,
		version:    p.version,
		release:    p.release,
		flags:      p.flags,
		context:    p.context,
		derivation: p.derivation,
		prefix:     p.prefix,
		priority:   p.priority,
	}
	return c
}

// Retain increments the reference count and returns p, for chaining at
// container-insertion sites.
func (p *Package) Retain() *Package {
	p.refCount.Add(1)
	return p
}

// ReleaseRef decrements the reference count. It is the container's
// responsibility to call ReleaseRef exactly once per Retain.
func (p *Package) ReleaseRef() int32 { return p.refCount.Add(-1) }

// RefCount returns the current reference count.
func (p *Package) RefCount() int32 { return p.refCount.Load() }

// --- presence predicates ---

func (p *Package) HasName() bool       { return p.name != "" }
func (p *Package) HasArch() bool       { return p.arch != "" }
func (p *Package) HasVersion() bool    { return p.version != "" }
func (p *Package) HasRelease() bool    { return p.release != "" }
func (p *Package) HasFlags() bool      { return p.flags != "" }
func (p *Package) HasContext() bool    { return p.context != "" }
func (p *Package) HasDerivation() bool { return p.derivation != "" }
func (p *Package) HasPrefix() bool     { return p.prefix != PrefixNone }

// --- borrowing accessors ---

func (p *Package) Name() string       { return p.name }
func (p *Package) Arch() string       { return p.arch }
func (p *Package) Version() string    { return p.version }
func (p *Package) Release() string    { return p.release }
func (p *Package) Flags() string      { return p.flags }
func (p *Package) Context() string    { return p.context }
func (p *Package) Derivation() string { return p.derivation }
func (p *Package) Prefix() Prefix     { return p.prefix }
func (p *Package) Priority() int      { return p.priority }

// IsValid reports whether p has a well-formed name.
func (p *Package) IsValid() bool { return p.name != "" && nameRe.MatchString(p.name) }

// IsActive reports whether p's priority is non-negative.
func (p *Package) IsActive() bool { return p.priority >= 0 }

// --- validated setters ---

// SetName validates and sets the package name. It rejects (without
// mutating p) any value that does not start with an alphanumeric character
// and continue with [A-Za-z0-9_.+-].
func (p *Package) SetName(name string) error {
	if !nameRe.MatchString(name) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid package name %q", name))
	}
	p.name = name
	return nil
}

// SetArch validates and sets the architecture field.
func (p *Package) SetArch(arch string) error {
	if arch == "" {
		p.arch = ""
		return nil
	}
	if !archRe.MatchString(arch) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid architecture %q", arch))
	}
	p.arch = arch
	return nil
}

// SetVersion validates and sets the version field: no '-' or whitespace.
// An empty v clears the field.
func (p *Package) SetVersion(v string) error {
	if v == "" {
		p.version = ""
		return nil
	}
	if !versionRe.MatchString(v) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid version %q", v))
	}
	p.version = v
	return nil
}

// SetRelease validates and sets the release field under the same rules as
// SetVersion.
func (p *Package) SetRelease(r string) error {
	if r == "" {
		p.release = ""
		return nil
	}
	if !versionRe.MatchString(r) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid release %q", r))
	}
	p.release = r
	return nil
}

// SetFlags validates and replaces the flags field outright (use AddFlags to
// union with the existing set).
func (p *Package) SetFlags(flags string) error {
	if flags == "" {
		p.flags = ""
		return nil
	}
	if !flagsRe.MatchString(flags) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid flags %q", flags))
	}
	p.flags = sortUniqueChars(flags)
	return nil
}

// AddFlags computes the union of the current flags and extra, eliminates
// duplicates, and replaces the field with the sorted result.
func (p *Package) AddFlags(extra string) error {
	if extra == "" {
		return nil
	}
	if !flagsRe.MatchString(extra) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid flags %q", extra))
	}
	p.flags = sortUniqueChars(p.flags + extra)
	return nil
}

func sortUniqueChars(s string) string {
	var seen [128]bool
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 128 && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return string(out)
}

// SetContext validates expr with the given ContextValidator and sets the
// context field. A nil validator defaults to AllowAnyContext.
func (p *Package) SetContext(expr string, validate ContextValidator) error {
	if validate == nil {
		validate = AllowAnyContext
	}
	if expr != "" && !validate(expr) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid context expression %q", expr))
	}
	p.context = expr
	return nil
}

// AppendContext delegates context combination to combine (the external
// context-expression combiner); a nil combine ORs the two expressions
// together with "|", parenthesizing both sides.
func (p *Package) AppendContext(expr string, combine func(a, b string) string) {
	if expr == "" {
		return
	}
	if p.context == "" {
		p.context = expr
		return
	}
	if combine == nil {
		combine = func(a, b string) string { return "(" + a + ")|(" + b + ")" }
	}
	p.context = combine(p.context, expr)
}

// SetDerivation replaces the derivation field outright (free-form, no
// validation).
func (p *Package) SetDerivation(d string) { p.derivation = d }

// AppendDerivation string-joins a new derivation entry with a single space,
// skipped when the new string is already a substring of the existing one.
// This substring check is a deliberately cheap dedup (it can miss
// overlapping tokens) preserved from the reference behavior.
func (p *Package) AppendDerivation(d string) {
	if d == "" {
		return
	}
	if p.derivation == "" {
		p.derivation = d
		return
	}
	if strings.Contains(p.derivation, d) {
		return
	}
	p.derivation = p.derivation + " " + d
}

// SetPrefix sets the prefix to one of {+,-,=,?,~}. It is not interpreted at
// this layer; it becomes a record attribute consumed later by the merge
// engine.
func (p *Package) SetPrefix(pfx Prefix) error {
	if pfx != PrefixNone && !validPrefix(byte(pfx)) {
		return newError(KindInvalidInput, fmt.Sprintf("invalid prefix %q", byte(pfx)))
	}
	p.prefix = pfx
	return nil
}

// ClearPrefix resets the prefix to PrefixNone.
func (p *Package) ClearPrefix() { p.prefix = PrefixNone }

// SetPriority sets the priority field directly (bypassing EvalPriority).
func (p *Package) SetPriority(pr int) { p.priority = pr }

// EvalPriority assigns p's priority from evaluator applied to p's context
// expression and ctxlist. If p has no context expression, priority becomes
// 0. On evaluator failure p is left unchanged and the error is returned.
func (p *Package) EvalPriority(evaluator ContextEvaluator, ctxlist []string) error {
	if p.context == "" {
		p.priority = 0
		return nil
	}
	if evaluator == nil {
		evaluator = DefaultContextEvaluator{}
	}
	pr, err := evaluator.EvalPriority(p.context, ctxlist)
	if err != nil {
		return (&Error{Kind: KindInvalidInput, Message: "context evaluation failed", Cause: err}).withPackage(p.id())
	}
	p.priority = pr
	return nil
}

// FullVersion returns version + "-" + release, substituting the wildcard
// "*" for any missing side.
func (p *Package) FullVersion() string {
	v, r := p.version, p.release
	if v == "" {
		v = "*"
	}
	if r == "" {
		r = "*"
	}
	return v + "-" + r
}

// ID returns name + "." + arch when arch is present, else just name.
func (p *Package) ID() string {
	if p.arch != "" {
		return p.name + "." + p.arch
	}
	return p.name
}

func (p *Package) id() string {
	if p == nil {
		return ""
	}
	return p.ID()
}

// Equal reports whether p and other share the same name (case-insensitive),
// arch, version, release, flags and context. Prefix and derivation are not
// part of equality.
func (p *Package) Equal(other *Package) bool {
	if p == nil || other == nil {
		return p == other
	}
	return strings.EqualFold(p.name, other.name) &&
		p.arch == other.arch &&
		p.version == other.version &&
		p.release == other.release &&
		p.flags == other.flags &&
		p.context == other.context
}

// VersionComparator compares two version-like strings (version or release),
// returning negative/zero/positive like strings.Compare. The core defers to
// an externally supplied RPM-style comparator when available.
type VersionComparator func(a, b string) int

// ByteCompare is the default VersionComparator: plain byte-lexicographic
// comparison, used whenever no RPM-style comparator is supplied.
func ByteCompare(a, b string) int { return strings.Compare(a, b) }

// Compare orders p and other lexicographically by (name case-insensitive,
// arch, version, release). A nil cmp defaults to ByteCompare.
func (p *Package) Compare(other *Package, cmp VersionComparator) int {
	if cmp == nil {
		cmp = ByteCompare
	}
	if d := strings.Compare(strings.ToLower(p.name), strings.ToLower(other.name)); d != 0 {
		return d
	}
	if d := strings.Compare(p.arch, other.arch); d != 0 {
		return d
	}
	if d := cmp(p.version, other.version); d != 0 {
		return d
	}
	return cmp(p.release, other.release)
}

// Match reports whether p's name matches nameGlob and p's arch matches
// archGlob ("*" matches any arch including absent), using fnmatch-style
// glob semantics (?, *).
func (p *Package) Match(nameGlob, archGlob string) bool {
	if nameGlob != "" {
		if ok, _ := globMatch(nameGlob, p.name); !ok {
			return false
		}
	}
	if archGlob != "" && archGlob != "*" {
		if ok, _ := globMatch(archGlob, p.arch); !ok {
			return false
		}
	}
	return true
}

func globMatch(pattern, s string) (bool, error) {
	// fnmatch-style ? and * over arbitrary strings, in the spirit of
	// filepath.Match used to filter names elsewhere in the pack (see
	// SPEC_FULL.md §4 grounding), but without path-separator semantics.
	return matchGlob(pattern, s), nil
}

package pkgspec

// Change is the result code returned by every mutating operation on a List
// or Set.
type Change int

const (
	ChangeNone Change = iota
	ChangeAdded
	ChangeRemoved
	ChangeReplaced
	ChangeModified
	ChangeError
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "NONE"
	case ChangeAdded:
		return "ADDED"
	case ChangeRemoved:
		return "REMOVED"
	case ChangeReplaced:
		return "REPLACED"
	case ChangeModified:
		return "MODIFIED"
	case ChangeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MergeRules is a disjoint bitmask of the conflict-resolution strategies
// MergePackage and MergeList consult, in the contractual order: prefix rule,
// squash-identical, keep-all, replace, use-priority.
type MergeRules uint8

const RuleNone MergeRules = 0

const (
	// RuleKeepAll accepts every incoming package unconditionally, even when a
	// primary-key conflict exists (duplicates permitted).
	RuleKeepAll MergeRules = 1 << iota
	// RuleSquashIdentical removes and re-appends an existing package that is
	// Equal to the incoming one, refreshing its derivation.
	RuleSquashIdentical
	// RuleUsePriority resolves a conflict by comparing Priority fields;
	// equal priorities are a conflict.
	RuleUsePriority
	// RuleUsePrefix dispatches on the incoming package's Prefix character
	// before any other rule is consulted.
	RuleUsePrefix
	// RuleReplace unconditionally replaces an existing conflicting package.
	RuleReplace
)

// Has reports whether all bits of other are set in r.
func (r MergeRules) Has(other MergeRules) bool { return r&other == other }

// PrimaryKey is a bitmask over the fields that define "the same package" for
// merge-conflict detection.
type PrimaryKey uint8

const (
	KeyName PrimaryKey = 1 << iota
	KeyArch
	KeyCtx
)

// DefaultPrimaryKey is NAME|ARCH, the spec.md §3.2 default.
const DefaultPrimaryKey = KeyName | KeyArch

func (k PrimaryKey) Has(other PrimaryKey) bool { return k&other == other }

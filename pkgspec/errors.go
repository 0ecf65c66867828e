package pkgspec

import "fmt"

// Kind classifies the failure modes a caller of this package needs to
// distinguish between, per the error taxonomy.
type Kind int

const (
	// KindInvalidInput covers field validation failures, bad prefix
	// characters, and malformed spec lines.
	KindInvalidInput Kind = iota
	// KindConflict covers merge rejections: a pinned version, an
	// unresolved priority tie, or a plain version conflict.
	KindConflict
	// KindNotFound covers lookups and removals that found nothing.
	KindNotFound
	// KindResource covers underlying allocator/capacity failures.
	KindResource
	// KindIO covers ingestion stream read/open failures.
	KindIO
	// KindInternal covers invariant violations in merge book-keeping.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	case KindResource:
		return "Resource"
	case KindIO:
		return "IO"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the structured error type returned by this package's mutating
// operations. It carries the failure Kind plus an optional package identity
// and derivation, so a caller can render a message like:
//
//	for package 'foo-1.2-3': Version conflict
type Error struct {
	Kind       Kind
	Message    string
	PackageID  string
	Derivation string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.PackageID != "" {
		msg = fmt.Sprintf("for package '%s': %s", e.PackageID, msg)
	}
	if e.Derivation != "" {
		msg = fmt.Sprintf("%s (from %s)", msg, e.Derivation)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &pkgspec.Error{Kind: pkgspec.KindConflict}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) withPackage(id string) *Error {
	e2 := *e
	e2.PackageID = id
	return &e2
}

func (e *Error) withDerivation(d string) *Error {
	e2 := *e
	e2.Derivation = d
	return &e2
}

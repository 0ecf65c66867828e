package format

// Options is the §6.7 ingest/emit bitmask, shared between format and
// ingest.
type Options uint8

const (
	// Newline appends a trailing newline to emitted text.
	Newline Options = 1 << iota
	// NoContext suppresses the context field on emit.
	NoContext
	// NoPrefix suppresses the prefix character on emit.
	NoPrefix
	// UseMeta includes derivation/context pragmas in CPP blocks on emit,
	// and carries forward #pragma LCFG metadata during ingest.
	UseMeta
	// AllContexts keeps context-conflicting duplicates during ingest
	// instead of treating them as a merge conflict.
	AllContexts
	// AllowNoExist treats a missing input file as empty rather than an
	// error during ingest.
	AllowNoExist
)

// Has reports whether all bits of other are set in o.
func (o Options) Has(other Options) bool { return o&other == other }

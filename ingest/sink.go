package ingest

import "github.com/sjquinney/lcfg-core/pkgspec"

// MergeSink is the target container an ingestion pass merges records into:
// satisfied by both *pkgspec.List and *pkgspec.Set.
type MergeSink interface {
	MergePackage(p *pkgspec.Package) (pkgspec.Change, error)
}

// widenPrimaryKeyForContext adds KeyCtx to sink's primary key mask, so that
// context-conflicting duplicates are no longer treated as the same record
// during merge (the AllContexts ingest option). Sinks of an unrecognized
// concrete type are left untouched.
func widenPrimaryKeyForContext(sink MergeSink) {
	switch s := sink.(type) {
	case *pkgspec.List:
		s.PrimaryKey |= pkgspec.KeyCtx
	case *pkgspec.Set:
		s.PrimaryKey |= pkgspec.KeyCtx
	}
}

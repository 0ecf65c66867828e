// Package pkgspec provides the core data model for LCFG package specifications:
// the Package record, the single-line spec parser, the ordered Package List with
// its configurable merge algebra, and the hash-indexed Package Set used for
// high-volume ingestion.
//
// # Design Philosophy
//
// The package operates entirely in memory. A Package is a small value object
// shared (by reference count) across any number of containers; List and Set
// own the merge algebra that decides, for a given primary key and rule set,
// whether an incoming Package is added, replaces an existing one, is rejected
// as a conflict, or is silently absorbed as a duplicate.
//
// # Features
//
//   - Parse a single LCFG package spec line into a Package (Parse).
//   - Validate and mutate Package fields through checked setters.
//   - Merge Packages into a List under a configurable rule bitmask (MergeRules).
//   - Merge Packages into a Set, an open-addressed hash table of Lists keyed
//     by package name, with load-factor-driven resizing.
//   - Compare, clone, glob-match and anchored-search Packages and Lists.
package pkgspec

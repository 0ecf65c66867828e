// Package format renders pkgspec.Package records into the external
// fingerprints named in the spec line grammar, RPM/Debian filenames, and the
// CPP/XML/summary/shell-eval text formats. Every function here is
// deterministic; the filename renderers and parsers return an error when a
// required component is missing or invalid. None of them touch a stream or
// a filesystem.
package format

// Package ingest consumes external package-spec streams — a CPP-processed
// manifest, or a Debian-style package index — into a pkgspec.List or
// pkgspec.Set. It owns no global state: carry-forward metadata is a
// loop-local value threaded through a single pass over the stream, and
// progress is reported through a Listener callback rather than a logging
// library.
package ingest

// Package bundle packages a pkgspec.Set into a single ar-archive
// "package-set bundle" file for transport between an LCFG server and its
// clients, and optionally clearsigns the whole unsigned archive with PGP,
// appending the signature as a trailing SIGNATURE member, the same way the
// teacher signs Release/InRelease files.
package bundle

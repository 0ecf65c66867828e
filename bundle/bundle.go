package bundle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/blakesmith/ar"

	"github.com/sjquinney/lcfg-core/format"
	"github.com/sjquinney/lcfg-core/pkgspec"
)

// manifestMember and signatureMember are the fixed bookend member names of
// a bundle; every other member is "<package-name>.spec".
const (
	manifestMember = "MANIFEST"
	signatureMember = "SIGNATURE"
)

// Listener receives a structured event per member written or read.
type Listener func(fmt.Stringer)

func emit(l Listener, e fmt.Stringer) {
	if l != nil {
		l(e)
	}
}

// EventMember is reported for every archive member written or read.
type EventMember struct {
	Name string
	Size int
}

func (e EventMember) String() string { return fmt.Sprintf(`{"member":%q,"size":%d}`, e.Name, e.Size) }

func addMember(w *ar.Writer, name string, body []byte, listener Listener) error {
	header := &ar.Header{
		Name:    name,
		Size:    int64(len(body)),
		Mode:    0644,
		ModTime: time.Now(),
	}
	if err := w.WriteHeader(header); err != nil {
		return fmt.Errorf("bundle: writing %s header: %w", name, err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("bundle: writing %s body: %w", name, err)
	}
	emit(listener, EventMember{Name: name, Size: len(body)})
	return nil
}

// Write serializes set as an ar archive: a MANIFEST member listing every
// package name (one per line, sorted), followed by one "<name>.spec" member
// per name holding that name's records in canonical spec-line form
// (one per line, newline-terminated). defaultArch is passed through to
// format.Spec so records matching it omit a redundant /ARCH suffix.
func Write(w io.Writer, set *pkgspec.Set, defaultArch string, listener Listener) error {
	aw := ar.NewWriter(w)
	if err := aw.WriteGlobalHeader(); err != nil {
		return fmt.Errorf("bundle: writing ar global header: %w", err)
	}

	names := set.Names()
	var manifest bytes.Buffer
	for _, name := range names {
		fmt.Fprintln(&manifest, name)
	}
	if err := addMember(aw, manifestMember, manifest.Bytes(), listener); err != nil {
		return err
	}

	for _, name := range names {
		l := set.FindList(name)
		var body bytes.Buffer
		items := append([]*pkgspec.Package(nil), l.Items()...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Compare(items[j], l.Comparator) < 0 })
		for _, p := range items {
			body.WriteString(format.Spec(p, defaultArch, format.Newline))
		}
		if err := addMember(aw, name+".spec", body.Bytes(), listener); err != nil {
			return err
		}
	}

	return nil
}

// WriteSigned writes the same archive as Write, then clearsigns the entire
// unsigned archive with armoredPrivateKey and appends the result as a
// trailing SIGNATURE ar member, so the output is a single archive that
// Read can parse directly (it already skips a member named SIGNATURE).
func WriteSigned(w io.Writer, set *pkgspec.Set, defaultArch, armoredPrivateKey string, listener Listener) error {
	var unsigned bytes.Buffer
	if err := Write(&unsigned, set, defaultArch, listener); err != nil {
		return err
	}
	signature, err := SignExport(unsigned.Bytes(), armoredPrivateKey)
	if err != nil {
		return fmt.Errorf("bundle: signing archive: %w", err)
	}
	if _, err := w.Write(unsigned.Bytes()); err != nil {
		return fmt.Errorf("bundle: writing archive: %w", err)
	}
	// The ar global header was already written as part of unsigned's bytes;
	// appending one more member only needs a header+body, not another one.
	aw := ar.NewWriter(w)
	return addMember(aw, signatureMember, signature, listener)
}

// Read parses an ar archive produced by Write back into a fresh Set built
// with the given merge rules. Unknown members (other than MANIFEST and
// SIGNATURE) are ignored, so a signed bundle (with a trailing SIGNATURE
// member) round-trips through Read directly; callers that need to verify
// the signature should do so first with VerifyExport against the raw bytes.
func Read(r io.Reader, rules pkgspec.MergeRules, listener Listener) (*pkgspec.Set, error) {
	set := pkgspec.NewSet(rules)
	arReader := ar.NewReader(r)
	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bundle: reading ar header: %w", err)
		}
		if header.Name == manifestMember || header.Name == signatureMember {
			io.Copy(io.Discard, arReader)
			emit(listener, EventMember{Name: header.Name, Size: int(header.Size)})
			continue
		}

		scanner := bufio.NewScanner(arReader)
		n := 0
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			p, err := pkgspec.Parse(line)
			if err != nil {
				return nil, fmt.Errorf("bundle: member %s: %w", header.Name, err)
			}
			if _, err := set.MergePackage(p); err != nil {
				return nil, fmt.Errorf("bundle: member %s: %w", header.Name, err)
			}
			n++
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("bundle: member %s: %w", header.Name, err)
		}
		emit(listener, EventMember{Name: header.Name, Size: n})
	}
	return set, nil
}

package bundle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
)

// SignExport clearsigns data with the first private key found in
// armoredPrivateKey, producing an ASCII-armored clearsigned document
// suitable for storage as a bundle's SIGNATURE member.
func SignExport(data []byte, armoredPrivateKey string) ([]byte, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armoredPrivateKey))
	if err != nil {
		return nil, fmt.Errorf("bundle: reading private keyring: %w", err)
	}
	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("bundle: no private key found in supplied keyring")
	}

	var out bytes.Buffer
	w, err := clearsign.Encode(&out, signer.PrivateKey, nil)
	if err != nil {
		return nil, fmt.Errorf("bundle: starting clearsign: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bundle: writing clearsign body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bundle: closing clearsign: %w", err)
	}
	return out.Bytes(), nil
}

// VerifyExport checks a clearsigned document produced by SignExport against
// armoredPublicKey and returns the original, unsigned content on success.
func VerifyExport(signed []byte, armoredPublicKey string) ([]byte, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armoredPublicKey))
	if err != nil {
		return nil, fmt.Errorf("bundle: reading public keyring: %w", err)
	}

	block, _ := clearsign.Decode(signed)
	if block == nil {
		return nil, fmt.Errorf("bundle: not a clearsigned document")
	}
	if _, err := openpgp.CheckDetachedSignature(keyring, bytes.NewReader(block.Bytes), block.ArmoredSignature.Body, nil); err != nil {
		return nil, fmt.Errorf("bundle: signature verification failed: %w", err)
	}
	return block.Plaintext, nil
}

// ExtractPublicKey returns the ASCII-armored public key corresponding to
// the first private key in armoredPrivateKey, for distribution to clients
// that will call VerifyExport.
func ExtractPublicKey(armoredPrivateKey string) (string, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armoredPrivateKey))
	if err != nil {
		return "", fmt.Errorf("bundle: reading private keyring: %w", err)
	}
	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return "", fmt.Errorf("bundle: no private key found in supplied keyring")
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return "", fmt.Errorf("bundle: starting armor encoder: %w", err)
	}
	if err := signer.Serialize(w); err != nil {
		return "", fmt.Errorf("bundle: serializing public key: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("bundle: closing armor encoder: %w", err)
	}
	return buf.String(), nil
}

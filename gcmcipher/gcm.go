package gcmcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// TagLen is the truncated GCM tag length DSMR uses.
const TagLen = 12

// Decryptor is a decrypt-only AES-128-GCM engine built on the stdlib's
// AEAD implementation, configured for the one security mode DSMR
// encryption uses: a 12-byte externally supplied nonce, arbitrary
// additional authenticated data, and a 12-byte truncated tag.
type Decryptor struct {
	aead cipher.AEAD
	// sealed is reused across calls to assemble ciphertext||tag, the
	// input shape crypto/cipher.AEAD.Open expects, without allocating
	// once it has grown to the largest packet body seen so far.
	sealed []byte
}

// NewDecryptor installs a 16-byte AES-128 key and builds the GCM AEAD.
func NewDecryptor(key []byte) (*Decryptor, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeyLen, len(key))
	}
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithTagSize(blk, TagLen)
	if err != nil {
		return nil, err
	}
	return &Decryptor{aead: aead}, nil
}

// Decrypt authenticates aad and ciphertext against tag using nonce, and
// only on success writes the plaintext into dst (which may alias
// ciphertext) and returns it. Tag verification runs as part of the same
// pass that produces the plaintext; the caller never observes dst unless
// Decrypt returns a nil error.
func (d *Decryptor) Decrypt(dst, nonce, aad, ciphertext, tag []byte) ([]byte, error) {
	if len(nonce) != 12 {
		return nil, fmt.Errorf("nonce must be 12 bytes, got %d", len(nonce))
	}
	if len(tag) != TagLen {
		return nil, fmt.Errorf("tag must be %d bytes, got %d", TagLen, len(tag))
	}

	need := len(ciphertext) + len(tag)
	if cap(d.sealed) < need {
		d.sealed = make([]byte, need)
	}
	sealed := d.sealed[:need]
	copy(sealed, ciphertext)
	copy(sealed[len(ciphertext):], tag)

	plain, err := d.aead.Open(dst[:0], nonce, sealed, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

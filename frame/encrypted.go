package frame

import (
	"encoding/binary"

	"github.com/cybroslabs/dsmr-p1-go/gcmcipher"
)

type encryptedState int

const (
	encWaitingForStart encryptedState = iota
	encAccumulatingHeader
	encAccumulatingBody
)

// minTelegramWithTagLen is the sanity floor the header's announced body
// length (ciphertext + tag) must exceed before it is trusted.
const minTelegramWithTagLen = 25

// EncryptedFramer reassembles a DLMS packet (header, ciphertext, GCM tag)
// from a raw byte stream one byte at a time, and decrypts the ciphertext
// as soon as the full packet has been accumulated. It never performs I/O,
// and the caller supplies both the ciphertext scratch buffer and the
// plaintext output buffer; the only allocation is the decryptor's own
// scratch buffer, which grows when a packet body larger than any seen
// before arrives.
type EncryptedFramer struct {
	header   [headerLen]byte
	headerN  int
	body     []byte // caller-owned scratch for ciphertext+tag
	bodyN    int
	bodyLen  int
	plainBuf []byte // caller-owned plaintext output buffer
	state    encryptedState
	cipher   *gcmcipher.Decryptor
}

// NewEncryptedFramer wraps a ciphertext scratch buffer and a plaintext
// output buffer. body must be at least as large as the largest packet
// body (ciphertext + 12-byte tag) the caller expects.
func NewEncryptedFramer(body, plainBuf []byte) *EncryptedFramer {
	return &EncryptedFramer{body: body, plainBuf: plainBuf}
}

// SetKeyHex installs a 32-character hex AES-128 key, re-initialising the
// decryption primitive. A key may be replaced between packets.
func (f *EncryptedFramer) SetKeyHex(hex string) error {
	key, err := gcmcipher.ParseKeyHex(hex)
	if err != nil {
		return err
	}
	return f.SetKey(key)
}

// SetKey installs a raw 16-byte AES-128 key.
func (f *EncryptedFramer) SetKey(key []byte) error {
	d, err := gcmcipher.NewDecryptor(key)
	if err != nil {
		return ErrFailedToSetEncryptionKey
	}
	f.cipher = d
	return nil
}

// Reset clears the state tag only, as required after detecting an
// inter-frame gap with no plaintext emitted. It is O(1) and never frees
// memory.
func (f *EncryptedFramer) Reset() {
	f.state = encWaitingForStart
}

// Feed processes one byte. A non-nil plaintext return is a view into the
// caller-supplied plaintext buffer, valid until the next Feed call.
func (f *EncryptedFramer) Feed(b byte) (plaintext []byte, err error) {
	switch f.state {
	case encWaitingForStart:
		if b != 0xDB {
			return nil, nil
		}
		f.header[0] = b
		f.headerN = 1
		f.bodyN = 0
		f.state = encAccumulatingHeader
		return nil, nil

	case encAccumulatingHeader:
		f.header[f.headerN] = b
		f.headerN++
		if f.headerN < headerLen {
			return nil, nil
		}

		if f.header[1] != 0x08 || f.header[10] != 0x82 || f.header[13] != 0x30 {
			f.state = encWaitingForStart
			return nil, ErrHeaderCorrupted
		}
		totalLength := int(binary.BigEndian.Uint16(f.header[11:13]))
		bodyLen := totalLength - 5 // security control field + invocation counter
		if bodyLen <= minTelegramWithTagLen {
			f.state = encWaitingForStart
			return nil, ErrHeaderCorrupted
		}
		if bodyLen > len(f.body) {
			f.state = encWaitingForStart
			return nil, ErrBufferOverflow
		}
		f.bodyLen = bodyLen
		f.state = encAccumulatingBody
		return nil, nil

	case encAccumulatingBody:
		f.body[f.bodyN] = b
		f.bodyN++
		if f.bodyN < f.bodyLen {
			return nil, nil
		}
		f.state = encWaitingForStart
		return f.decrypt()
	}

	// unreachable
	return nil, nil
}

func (f *EncryptedFramer) decrypt() ([]byte, error) {
	if f.cipher == nil {
		return nil, ErrFailedToSetEncryptionKey
	}

	ciphertext := f.body[:f.bodyLen-tagLen]
	tag := f.body[f.bodyLen-tagLen : f.bodyLen]

	// System title (offset 2..10) and invocation counter (offset 14..18)
	// are not adjacent in the header, so the nonce must be assembled
	// rather than sliced directly.
	var nonce [12]byte
	copy(nonce[:8], f.header[2:10])
	copy(nonce[8:], f.header[14:18])

	plain, err := f.cipher.Decrypt(f.plainBuf, nonce[:], AAD, ciphertext, tag)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

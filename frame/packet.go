package frame

import "encoding/binary"

const (
	headerLen = 18
	tagLen    = 12
	// minBodyLen is the sanity floor for the announced body length:
	// security control field (1) + invocation counter (4) + at least one
	// byte of ciphertext + the 12-byte tag.
	minBodyLen = 1 + 4 + 1 + tagLen
)

// Packet is the fixed 18+N+12-byte DLMS container a DSMR meter emits when
// it encrypts telegrams: an 18-byte header, N bytes of ciphertext, and a
// 12-byte truncated GCM tag. It is a thin, non-owning view over a
// caller-supplied byte slice; offsets are read explicitly as big-endian,
// never via struct overlay.
type Packet struct {
	raw   []byte
	nonce [12]byte
}

// ParsePacket validates the fixed header bytes of raw and that its total
// length matches the length the header announces. raw must contain the
// complete packet (header + ciphertext + tag); there is no streaming
// variant here, see EncryptedFramer for that.
func ParsePacket(raw []byte) (Packet, error) {
	if len(raw) < headerLen+tagLen {
		return Packet{}, ErrHeaderCorrupted
	}
	if raw[0] != 0xDB || raw[1] != 0x08 || raw[10] != 0x82 || raw[13] != 0x30 {
		return Packet{}, ErrHeaderCorrupted
	}
	totalLength := binary.BigEndian.Uint16(raw[11:13])
	if totalLength < 17 {
		return Packet{}, ErrHeaderCorrupted
	}
	ciphertextLen := int(totalLength) - 5 - tagLen
	if ciphertextLen < 0 || len(raw) != headerLen+ciphertextLen+tagLen {
		return Packet{}, ErrHeaderCorrupted
	}
	p := Packet{raw: raw}
	copy(p.nonce[:8], raw[2:10])
	copy(p.nonce[8:], raw[14:18])
	return p, nil
}

// Nonce returns the 12-byte GCM nonce: the 8-byte system title (offset
// 2..10) followed by the 4-byte invocation counter (offset 14..18). The two
// fields are not adjacent in the header (the long-form length indicator,
// total length, and security control field sit between them), so the nonce
// is assembled rather than sliced directly from raw.
func (p Packet) Nonce() []byte {
	return p.nonce[:]
}

// Ciphertext returns the encrypted telegram body, excluding the trailing
// GCM tag.
func (p Packet) Ciphertext() []byte {
	return p.raw[headerLen : len(p.raw)-tagLen]
}

// Tag returns the trailing 12-byte truncated GCM tag.
func (p Packet) Tag() []byte {
	return p.raw[len(p.raw)-tagLen:]
}

// SystemTitle returns the 8-byte system title from the header.
func (p Packet) SystemTitle() []byte {
	return p.raw[2:10]
}

// InvocationCounter returns the 4-byte big-endian invocation counter from
// the header.
func (p Packet) InvocationCounter() uint32 {
	return binary.BigEndian.Uint32(p.raw[14:18])
}

// AAD is the fixed 17-byte additional authenticated data published for
// DSMR channel security: the security control field (0x30) followed by
// the 16-byte sequence 00112233445566778899AABBCCDDEEFF.
var AAD = []byte{0x30, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}

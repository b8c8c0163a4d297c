// Package frame implements the two byte-at-a-time streaming state machines
// that locate a DSMR telegram in a raw byte stream: the plaintext framer
// (bracketed by '/' and '!', optionally CRC-checked) and the encrypted
// framer (a binary DLMS container decrypted with AES-128-GCM).
package frame

import "errors"

// Plaintext framer errors.
var (
	ErrBufferOverflow          = errors.New("BufferOverflow")
	ErrPacketStartSymbolInLine = errors.New("PacketStartSymbolInPacket")
	ErrIncorrectCrcCharacter   = errors.New("IncorrectCrcCharacter")
	ErrCrcMismatch             = errors.New("CrcMismatch")
)

// Encrypted framer and DLMS packet model errors.
var (
	ErrHeaderCorrupted          = errors.New("HeaderCorrupted")
	ErrFailedToSetEncryptionKey = errors.New("FailedToSetEncryptionKey")
	ErrDecryptionFailed         = errors.New("DecryptionFailed")
)

// One-shot decryptor errors (§ supplemented feature, no streaming state).
var (
	ErrEncryptedTelegramTooSmall       = errors.New("EncryptedTelegramIsTooSmall")
	ErrDecryptedTelegramBufferTooSmall = errors.New("DecryptedTelegramBufferIsTooSmall")
)

package gcmcipher

import "errors"

var (
	// ErrKeyLengthIsNot32Bytes is returned when a hex key string is not
	// exactly 32 characters (16 bytes) long.
	ErrKeyLengthIsNot32Bytes = errors.New("EncryptionKeyLengthIsNot32Bytes")
	// ErrKeyContainsNonHexSymbols is returned when a hex key string
	// contains a byte outside 0-9a-fA-F.
	ErrKeyContainsNonHexSymbols = errors.New("EncryptionKeyContainsNonHexSymbols")

	// ErrDecryptionFailed is returned when the GCM tag does not
	// authenticate the additional data and ciphertext.
	ErrDecryptionFailed = errors.New("DecryptionFailed")
)

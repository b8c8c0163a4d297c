package frame

import "github.com/cybroslabs/dsmr-p1-go/gcmcipher"

// DecryptPacket decrypts a complete, already-assembled DLMS packet in one
// call, for callers that hold the whole packet already (read from a file, a
// completed UDP datagram) and don't want to drive EncryptedFramer's
// byte-at-a-time state machine. dst receives the decrypted telegram; it may
// alias packet's backing array since GCM decryption here is in-place
// capable, but it must be at least as long as the ciphertext.
func DecryptPacket(dst []byte, cipher *gcmcipher.Decryptor, packet []byte) ([]byte, error) {
	if len(packet) < headerLen+minBodyLen {
		return nil, ErrEncryptedTelegramTooSmall
	}
	p, err := ParsePacket(packet)
	if err != nil {
		return nil, err
	}
	if len(dst) < len(p.Ciphertext()) {
		return nil, ErrDecryptedTelegramBufferTooSmall
	}
	plain, err := cipher.Decrypt(dst, p.Nonce(), AAD, p.Ciphertext(), p.Tag())
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

package frame

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"testing"

	"github.com/cybroslabs/dsmr-p1-go/gcmcipher"
)

func sealPacket(t *testing.T, key, systemTitle []byte, invocationCounter uint32, plaintext []byte) []byte {
	t.Helper()
	blk, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	g, err := cipher.NewGCMWithTagSize(blk, tagLen)
	if err != nil {
		t.Fatalf("NewGCMWithTagSize: %v", err)
	}

	nonce := make([]byte, 0, 12)
	nonce = append(nonce, systemTitle...)
	ctr := make([]byte, 4)
	binary.BigEndian.PutUint32(ctr, invocationCounter)
	nonce = append(nonce, ctr...)

	sealed := g.Seal(nil, nonce, plaintext, AAD)

	totalLength := 5 + len(plaintext) + tagLen
	pkt := make([]byte, 0, headerLen+len(sealed))
	pkt = append(pkt, 0xDB, 0x08)
	pkt = append(pkt, systemTitle...)
	pkt = append(pkt, 0x82)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(totalLength))
	pkt = append(pkt, lenBuf...)
	pkt = append(pkt, 0x30)
	pkt = append(pkt, ctr...)
	pkt = append(pkt, sealed...)
	return pkt
}

func TestDecryptPacketRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0xAA}, gcmcipher.KeyLen)
	plaintext := []byte("/EST5\\253710000_A\r\n1-0:4.7.0(000000166*var)\r\n!7EF9\r\n")
	pkt := sealPacket(t, key, []byte("SYSTEMID"), 1, plaintext)

	d, err := gcmcipher.NewDecryptor(key)
	if err != nil {
		t.Fatalf("NewDecryptor: %v", err)
	}

	got, err := DecryptPacket(make([]byte, len(plaintext)), d, pkt)
	if err != nil {
		t.Fatalf("DecryptPacket: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestDecryptPacketTamperedFails(t *testing.T) {
	key := bytes.Repeat([]byte{0xAA}, gcmcipher.KeyLen)
	plaintext := []byte("/EST5\\253710000_A\r\n1-0:4.7.0(000000166*var)\r\n!7EF9\r\n")
	pkt := sealPacket(t, key, []byte("SYSTEMID"), 1, plaintext)
	pkt[headerLen+2] ^= 0xFF

	d, err := gcmcipher.NewDecryptor(key)
	if err != nil {
		t.Fatalf("NewDecryptor: %v", err)
	}

	if _, err := DecryptPacket(make([]byte, len(plaintext)), d, pkt); err != ErrDecryptionFailed {
		t.Fatalf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecryptPacketTooSmall(t *testing.T) {
	d, err := gcmcipher.NewDecryptor(bytes.Repeat([]byte{0xAA}, gcmcipher.KeyLen))
	if err != nil {
		t.Fatalf("NewDecryptor: %v", err)
	}
	if _, err := DecryptPacket(nil, d, []byte{0xDB, 0x08}); err != ErrEncryptedTelegramTooSmall {
		t.Fatalf("got %v, want ErrEncryptedTelegramTooSmall", err)
	}
}

func TestDecryptPacketDstTooSmall(t *testing.T) {
	key := bytes.Repeat([]byte{0xAA}, gcmcipher.KeyLen)
	plaintext := []byte("/EST5\\253710000_A\r\n1-0:4.7.0(000000166*var)\r\n!7EF9\r\n")
	pkt := sealPacket(t, key, []byte("SYSTEMID"), 1, plaintext)

	d, err := gcmcipher.NewDecryptor(key)
	if err != nil {
		t.Fatalf("NewDecryptor: %v", err)
	}

	if _, err := DecryptPacket(make([]byte, 1), d, pkt); err != ErrDecryptedTelegramBufferTooSmall {
		t.Fatalf("got %v, want ErrDecryptedTelegramBufferTooSmall", err)
	}
}

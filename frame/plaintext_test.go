package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cybroslabs/dsmr-p1-go/crc16"
)

func feedAll(f *PlaintextFramer, data string) (telegrams [][]byte, errs []error) {
	for i := 0; i < len(data); i++ {
		tg, err := f.Feed(data[i])
		if tg != nil {
			telegrams = append(telegrams, append([]byte(nil), tg...))
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return
}

func TestPlaintextFramerRecoversFromGarbage(t *testing.T) {
	body := "/some !"
	crc := crc16.Checksum([]byte(body))
	input := "garbage " + body + toHex4(crc) + "garbage"

	f := NewPlaintextFramer(make([]byte, 64), true)
	telegrams, errs := feedAll(f, input)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(telegrams) != 1 || string(telegrams[0]) != body {
		t.Fatalf("got %q, want one telegram %q", telegrams, body)
	}
}

func TestPlaintextFramerBufferOverflowThenRestart(t *testing.T) {
	body := "/some !"
	crc := crc16.Checksum([]byte(body))
	input := "/garbage garbage garbage" + body + toHex4(crc)

	f := NewPlaintextFramer(make([]byte, 15), true)
	telegrams, errs := feedAll(f, input)

	if len(errs) != 1 || !errors.Is(errs[0], ErrBufferOverflow) {
		t.Fatalf("errs = %v, want exactly one ErrBufferOverflow", errs)
	}
	if len(telegrams) != 1 || string(telegrams[0]) != body {
		t.Fatalf("got %q, want one telegram %q", telegrams, body)
	}
}

func TestPlaintextFramerCrcMismatch(t *testing.T) {
	f := NewPlaintextFramer(make([]byte, 64), true)
	telegrams, errs := feedAll(f, "/some !FFFF")
	if len(telegrams) != 0 {
		t.Fatalf("got telegram %q, want none", telegrams)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrCrcMismatch) {
		t.Fatalf("errs = %v, want exactly one ErrCrcMismatch", errs)
	}
}

func TestPlaintextFramerNoCrcCheck(t *testing.T) {
	f := NewPlaintextFramer(make([]byte, 64), false)
	telegrams, errs := feedAll(f, "/some !whatevergarbage")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(telegrams) != 1 || string(telegrams[0]) != "/some !" {
		t.Fatalf("got %q", telegrams)
	}
}

func TestPlaintextFramerRestartMidPacket(t *testing.T) {
	body := "/second !"
	crc := crc16.Checksum([]byte(body))
	input := "/first garbage" + body + toHex4(crc)

	f := NewPlaintextFramer(make([]byte, 64), true)
	telegrams, errs := feedAll(f, input)

	if len(errs) != 1 || !errors.Is(errs[0], ErrPacketStartSymbolInLine) {
		t.Fatalf("errs = %v, want exactly one ErrPacketStartSymbolInLine", errs)
	}
	if len(telegrams) != 1 || string(telegrams[0]) != body {
		t.Fatalf("got %q, want one telegram %q", telegrams, body)
	}
}

func toHex4(v uint16) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		digits[(v>>12)&0xF],
		digits[(v>>8)&0xF],
		digits[(v>>4)&0xF],
		digits[v&0xF],
	})
}

func TestPlaintextFramerIncorrectCrcCharacter(t *testing.T) {
	f := NewPlaintextFramer(make([]byte, 64), true)
	telegrams, errs := feedAll(f, "/some !GGGG")
	if len(telegrams) != 0 {
		t.Fatalf("got telegram %q, want none", telegrams)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrIncorrectCrcCharacter) {
		t.Fatalf("errs = %v, want exactly one ErrIncorrectCrcCharacter", errs)
	}
}

func TestPlaintextFramerResetDiscardsPartial(t *testing.T) {
	f := NewPlaintextFramer(make([]byte, 64), true)
	for _, b := range []byte("/partial") {
		if _, err := f.Feed(b); err != nil {
			t.Fatalf("unexpected error mid-packet: %v", err)
		}
	}
	f.Reset()

	body := "/fresh !"
	crc := crc16.Checksum([]byte(body))
	telegrams, errs := feedAll(f, body+toHex4(crc))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(telegrams) != 1 || !bytes.Equal(telegrams[0], []byte(body)) {
		t.Fatalf("got %q, want %q", telegrams, body)
	}
}

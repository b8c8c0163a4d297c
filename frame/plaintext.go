package frame

import "github.com/cybroslabs/dsmr-p1-go/crc16"

type plaintextState int

const (
	waitingForStart plaintextState = iota
	waitingForEnd
	waitingForCrc
)

// PlaintextFramer locates a telegram bracketed by '/' and '!' inside an
// unsynchronised byte stream, copying it one byte at a time into a
// caller-supplied buffer, and optionally verifying its trailing CRC-16.
// It never allocates and never performs I/O; the caller owns the buffer
// and feeds bytes as they arrive.
type PlaintextFramer struct {
	buf      []byte
	n        int
	state    plaintextState
	checkCRC bool
	crc      uint16
	crcNibs  int
}

// NewPlaintextFramer wraps buf, which must be large enough to hold the
// longest telegram the caller expects to receive. If checkCRC is false the
// trailing four-hex checksum is neither required nor verified.
func NewPlaintextFramer(buf []byte, checkCRC bool) *PlaintextFramer {
	return &PlaintextFramer{buf: buf, checkCRC: checkCRC}
}

// Reset returns the framer to WaitingForStart, discarding any partially
// accumulated telegram.
func (f *PlaintextFramer) Reset() {
	f.state = waitingForStart
	f.n = 0
}

// Feed processes one byte. It returns a non-nil telegram slice (a view
// into the framer's buffer, valid until the next Feed call) when a
// complete, and if enabled CRC-verified, telegram has been accumulated. A
// non-nil error reports a framing problem; the framer has already reset
// itself to WaitingForStart by the time Feed returns, except after
// ErrPacketStartSymbolInLine, where the '/' that caused it has already
// begun a new telegram.
func (f *PlaintextFramer) Feed(b byte) (telegram []byte, err error) {
	if f.state == waitingForEnd && f.n == len(f.buf) {
		f.n = 0
		f.state = waitingForStart
		if b != '/' {
			return nil, ErrBufferOverflow
		}
	}

	if b == '/' {
		prev := f.state
		f.n = 0
		f.buf[f.n] = b
		f.n++
		f.state = waitingForEnd
		if prev == waitingForEnd || prev == waitingForCrc {
			return nil, ErrPacketStartSymbolInLine
		}
		return nil, nil
	}

	switch f.state {
	case waitingForStart:
		return nil, nil

	case waitingForEnd:
		f.buf[f.n] = b
		f.n++
		if b != '!' {
			return nil, nil
		}
		if !f.checkCRC {
			f.state = waitingForStart
			return f.buf[:f.n], nil
		}
		f.state = waitingForCrc
		f.crc = 0
		f.crcNibs = 0
		return nil, nil

	case waitingForCrc:
		nibble, ok := hexNibble(b)
		if !ok {
			f.state = waitingForStart
			return nil, ErrIncorrectCrcCharacter
		}
		f.crc = f.crc<<4 | uint16(nibble)
		f.crcNibs++
		if f.crcNibs < 4 {
			return nil, nil
		}
		f.state = waitingForStart
		if f.crc != crc16.Checksum(f.buf[:f.n]) {
			return nil, ErrCrcMismatch
		}
		return f.buf[:f.n], nil
	}

	// unreachable
	return nil, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

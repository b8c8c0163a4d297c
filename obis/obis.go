// Package obis implements the six-component OBIS identifier used to name
// measurements inside a DSMR telegram, and the cursor-based parser that
// recognises one from telegram text.
package obis

import (
	"errors"
	"fmt"
)

// ID is a fixed six-component OBIS identifier A-B:C.D.E.F. Missing trailing
// components are represented by 255.
type ID struct {
	A, B, C, D, E, F byte
}

// All255 is the reserved identifier offered for a telegram's identification
// line, which has no real OBIS id of its own.
var All255 = ID{255, 255, 255, 255, 255, 255}

func (id ID) String() string {
	return fmt.Sprintf("%d-%d:%d.%d.%d.%d", id.A, id.B, id.C, id.D, id.E, id.F)
}

// Equal reports whether two identifiers name the same measurement.
func (id ID) Equal(o ID) bool {
	return id == o
}

var (
	// ErrEmpty is returned when the cursor holds no OBIS identifier at all.
	ErrEmpty = errors.New("OBIS id Empty")
	// ErrOverflow is returned when a component would exceed 255.
	ErrOverflow = errors.New("Obis ID has number over 255")
)

// Parse recognises an OBIS identifier starting at data[0]. It stops at the
// first byte it cannot consume and returns the number of bytes it used, so
// the caller can keep parsing the remainder of the line. Unparsed trailing
// components are filled with 255.
func Parse(data []byte) (id ID, consumed int, err error) {
	v := [6]byte{}
	part := 0
	i := 0
loop:
	for i < len(data) {
		c := data[i]
		switch {
		case c >= '0' && c <= '9':
			digit := c - '0'
			if v[part] > 25 || (v[part] == 25 && digit > 5) {
				return ID{}, 0, fmt.Errorf("%w", ErrOverflow)
			}
			v[part] = v[part]*10 + digit
		case part == 0 && c == '-':
			part++
		case part == 1 && c == ':':
			part++
		case part > 1 && part < 5 && c == '.':
			part++
		default:
			break loop
		}
		i++
	}
	if i == 0 {
		return ID{}, 0, fmt.Errorf("%w", ErrEmpty)
	}
	for part++; part < 6; part++ {
		v[part] = 255
	}
	return ID{v[0], v[1], v[2], v[3], v[4], v[5]}, i, nil
}

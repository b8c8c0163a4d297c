// Package field defines the contract a telegram schema's fields must
// satisfy, and the dispatch helper that routes an OBIS-identified line to
// the matching field.
package field

import (
	"errors"

	"github.com/cybroslabs/dsmr-p1-go/obis"
)

// ErrDuplicateField is returned when the same OBIS identifier appears twice
// in one telegram.
var ErrDuplicateField = errors.New("Duplicate field")

// Descriptor is the contract every concrete field in a telegram schema must
// satisfy: a static OBIS identity, whether it has already been populated,
// and the ability to consume its own fragment of a data line.
type Descriptor interface {
	ID() obis.ID
	Present() bool
	// Parse consumes this field's value starting at data[0] and returns the
	// number of bytes it used.
	Parse(data []byte) (consumed int, err error)
}

// Visitor is invoked once per declared field by a fold over a Record.
type Visitor func(Descriptor)

// Record is a caller-declared schema: the structural sum of a chosen set of
// Descriptors, indexed by OBIS identifier.
type Record interface {
	Fields() []Descriptor
}

// Each folds v over every field declared by r, in declaration order.
func Each(r Record, v Visitor) {
	for _, d := range r.Fields() {
		v(d)
	}
}

// AllPresent reports whether every declared field has been populated.
func AllPresent(r Record) bool {
	for _, d := range r.Fields() {
		if !d.Present() {
			return false
		}
	}
	return true
}

// Dispatch finds the single descriptor in r whose ID matches id and, unless
// it is already present, hands it data to parse. matched reports whether a
// descriptor claimed this id at all (distinguishing "no such field" from a
// parse error), mirroring the try-each-field fold the schema-as-type design
// note describes.
func Dispatch(r Record, id obis.ID, data []byte) (consumed int, matched bool, err error) {
	for _, d := range r.Fields() {
		if d.ID() != id {
			continue
		}
		if d.Present() {
			return 0, true, ErrDuplicateField
		}
		n, perr := d.Parse(data)
		return n, true, perr
	}
	return 0, false, nil
}

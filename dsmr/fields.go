// Package dsmr implements the concrete field descriptors for the DSMR 4/5
// and Luxembourg Smarty telegram schema, and the Telegram record that
// assembles them.
package dsmr

import (
	"errors"
	"math"

	"github.com/cybroslabs/dsmr-p1-go/lex"
	"github.com/cybroslabs/dsmr-p1-go/obis"
)

// StringField holds a bounded, verbatim string fragment, such as a meter
// identification or equipment id.
type StringField struct {
	id       obis.ID
	min, max int
	present  bool
	Value    string
}

func NewStringField(id obis.ID, min, max int) *StringField {
	return &StringField{id: id, min: min, max: max}
}

func (f *StringField) ID() obis.ID   { return f.id }
func (f *StringField) Present() bool { return f.present }

func (f *StringField) Parse(data []byte) (int, error) {
	f.present = true
	v, n, err := lex.String(f.min, f.max, data)
	if err != nil {
		return 0, err
	}
	f.Value = v
	return n, nil
}

// FixedDecimalField holds a decimal measurement scaled to a fixed number of
// fractional digits. It falls back to a secondary, integer-only unit when
// the primary unit doesn't match (e.g. a meter reporting Wh where the field
// is declared in kWh); the secondary reading is parsed with zero decimals,
// which lands on the same raw scale because 1 kWh == 1000 Wh.
type FixedDecimalField struct {
	id                  obis.ID
	maxDecimals         int
	unit, secondaryUnit string
	present             bool
	Raw                 uint32
}

func NewFixedDecimalField(id obis.ID, maxDecimals int, unit string) *FixedDecimalField {
	return &FixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit}
}

func NewFixedDecimalFieldWithFallback(id obis.ID, maxDecimals int, unit, secondaryUnit string) *FixedDecimalField {
	return &FixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit, secondaryUnit: secondaryUnit}
}

func (f *FixedDecimalField) ID() obis.ID   { return f.id }
func (f *FixedDecimalField) Present() bool { return f.present }

// Value returns the measurement scaled back to its natural magnitude.
func (f *FixedDecimalField) Value() float64 {
	return float64(f.Raw) / math.Pow10(f.maxDecimals)
}

func (f *FixedDecimalField) Parse(data []byte) (int, error) {
	f.present = true
	v, n, err := lex.Numeric(f.maxDecimals, f.unit, data)
	if err != nil {
		if f.secondaryUnit != "" && (errors.Is(err, lex.ErrInvalidUnit) || errors.Is(err, lex.ErrMissingUnit)) {
			if v2, n2, err2 := lex.Numeric(0, f.secondaryUnit, data); err2 == nil {
				f.Raw = v2
				return n2, nil
			}
		}
		return 0, err
	}
	f.Raw = v
	return n, nil
}

// IntegerField holds a whole-number measurement, optionally unit-tagged
// (e.g. a count of power failures has no unit at all).
type IntegerField struct {
	id      obis.ID
	unit    string
	present bool
	Value   uint32
}

func NewIntegerField(id obis.ID, unit string) *IntegerField {
	return &IntegerField{id: id, unit: unit}
}

func (f *IntegerField) ID() obis.ID   { return f.id }
func (f *IntegerField) Present() bool { return f.present }

func (f *IntegerField) Parse(data []byte) (int, error) {
	f.present = true
	v, n, err := lex.Numeric(0, f.unit, data)
	if err != nil {
		return 0, err
	}
	f.Value = v
	return n, nil
}

// TimestampedFixedDecimalField holds a reading that carries its own
// timestamp, encoded as two adjacent fragments: a 13-character DSMR
// timestamp followed directly by a decimal value.
type TimestampedFixedDecimalField struct {
	id          obis.ID
	maxDecimals int
	unit        string
	present     bool
	Timestamp   string
	Raw         uint32
}

func NewTimestampedFixedDecimalField(id obis.ID, maxDecimals int, unit string) *TimestampedFixedDecimalField {
	return &TimestampedFixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit}
}

func (f *TimestampedFixedDecimalField) ID() obis.ID   { return f.id }
func (f *TimestampedFixedDecimalField) Present() bool { return f.present }

func (f *TimestampedFixedDecimalField) Value() float64 {
	return float64(f.Raw) / math.Pow10(f.maxDecimals)
}

func (f *TimestampedFixedDecimalField) Parse(data []byte) (int, error) {
	f.present = true
	ts, n1, err := lex.String(13, 13, data)
	if err != nil {
		return 0, err
	}
	v, n2, err := lex.Numeric(f.maxDecimals, f.unit, data[n1:])
	if err != nil {
		return 0, err
	}
	f.Timestamp = ts
	f.Raw = v
	return n1 + n2, nil
}

// skipFragment consumes one "(...)" fragment without interpreting it, used
// to step over structure identifiers interleaved in a history field between
// the entry count and the first timestamped entry.
func skipFragment(data []byte) (int, bool) {
	if len(data) == 0 || data[0] != '(' {
		return 0, false
	}
	i := 1
	for i < len(data) && data[i] != ')' {
		i++
	}
	if i == len(data) {
		return 0, false
	}
	return i + 1, true
}

// parseHistoryNumeric parses one entry's numeric fragment against unit,
// falling back to secondaryUnit (zero decimals) on a unit mismatch, the same
// per-entry fallback FixedDecimalField.Parse applies to a single reading —
// a capacity-rate history can mix a kW entry with a bare-W one.
func parseHistoryNumeric(data []byte, maxDecimals int, unit, secondaryUnit string) (uint32, int, error) {
	v, n, err := lex.Numeric(maxDecimals, unit, data)
	if err != nil {
		if secondaryUnit != "" && (errors.Is(err, lex.ErrInvalidUnit) || errors.Is(err, lex.ErrMissingUnit)) {
			if v2, n2, err2 := lex.Numeric(0, secondaryUnit, data); err2 == nil {
				return v2, n2, nil
			}
		}
		return 0, 0, err
	}
	return v, n, nil
}

// parseHistoryEntries parses a (count) fragment, skips any fragments before
// the first (timestamp)(timestamp)(numeric) entry, then parses exactly
// count entries, returning each entry's scaled raw value. secondaryUnit, if
// non-empty, is the integer-only fallback unit each entry's numeric may use
// instead of unit, mirroring FixedDecimalField's single-reading fallback.
func parseHistoryEntries(data []byte, maxDecimals int, unit, secondaryUnit string) (values []uint32, consumed int, err error) {
	count, n, err := lex.Numeric(0, "", data)
	if err != nil {
		return nil, 0, err
	}
	cursor := n

	for {
		if _, _, serr := lex.String(13, 13, data[cursor:]); serr == nil || count == 0 {
			break
		}
		sn, ok := skipFragment(data[cursor:])
		if !ok {
			return nil, 0, lex.ErrMissingOpenParen
		}
		cursor += sn
	}

	values = make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		_, tn1, terr := lex.String(13, 13, data[cursor:])
		if terr != nil {
			return nil, 0, terr
		}
		cursor += tn1
		_, tn2, terr := lex.String(13, 13, data[cursor:])
		if terr != nil {
			return nil, 0, terr
		}
		cursor += tn2
		v, nn, nerr := parseHistoryNumeric(data[cursor:], maxDecimals, unit, secondaryUnit)
		if nerr != nil {
			return nil, 0, nerr
		}
		cursor += nn
		values = append(values, v)
	}
	return values, cursor, nil
}

// AveragedFixedDecimalField holds the arithmetic mean of a variable-length
// list of timestamped readings (0 when the list is empty). secondaryUnit,
// when set, lets individual history entries fall back to an integer-only
// unit, the same way FixedDecimalField falls back for a single reading.
type AveragedFixedDecimalField struct {
	id                  obis.ID
	maxDecimals         int
	unit, secondaryUnit string
	present             bool
	Raw                 uint32
}

func NewAveragedFixedDecimalField(id obis.ID, maxDecimals int, unit string) *AveragedFixedDecimalField {
	return &AveragedFixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit}
}

func NewAveragedFixedDecimalFieldWithFallback(id obis.ID, maxDecimals int, unit, secondaryUnit string) *AveragedFixedDecimalField {
	return &AveragedFixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit, secondaryUnit: secondaryUnit}
}

func (f *AveragedFixedDecimalField) ID() obis.ID   { return f.id }
func (f *AveragedFixedDecimalField) Present() bool { return f.present }

func (f *AveragedFixedDecimalField) Value() float64 {
	return float64(f.Raw) / math.Pow10(f.maxDecimals)
}

func (f *AveragedFixedDecimalField) Parse(data []byte) (int, error) {
	f.present = true
	values, n, err := parseHistoryEntries(data, f.maxDecimals, f.unit, f.secondaryUnit)
	if err != nil {
		return 0, err
	}
	if len(values) > 0 {
		var sum uint64
		for _, v := range values {
			sum += uint64(v)
		}
		f.Raw = uint32(sum / uint64(len(values)))
	} else {
		f.Raw = 0
	}
	return n, nil
}

// LastFixedDecimalField holds the most recent reading of a variable-length
// list of timestamped readings. secondaryUnit behaves as it does on
// AveragedFixedDecimalField.
type LastFixedDecimalField struct {
	id                  obis.ID
	maxDecimals         int
	unit, secondaryUnit string
	present             bool
	Raw                 uint32
}

func NewLastFixedDecimalField(id obis.ID, maxDecimals int, unit string) *LastFixedDecimalField {
	return &LastFixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit}
}

func NewLastFixedDecimalFieldWithFallback(id obis.ID, maxDecimals int, unit, secondaryUnit string) *LastFixedDecimalField {
	return &LastFixedDecimalField{id: id, maxDecimals: maxDecimals, unit: unit, secondaryUnit: secondaryUnit}
}

func (f *LastFixedDecimalField) ID() obis.ID   { return f.id }
func (f *LastFixedDecimalField) Present() bool { return f.present }

func (f *LastFixedDecimalField) Value() float64 {
	return float64(f.Raw) / math.Pow10(f.maxDecimals)
}

func (f *LastFixedDecimalField) Parse(data []byte) (int, error) {
	f.present = true
	values, n, err := parseHistoryEntries(data, f.maxDecimals, f.unit, f.secondaryUnit)
	if err != nil {
		return 0, err
	}
	if len(values) > 0 {
		f.Raw = values[len(values)-1]
	} else {
		f.Raw = 0
	}
	return n, nil
}

// RawField holds an OBIS record's data payload verbatim, fragments and all,
// for schema entries whose structure isn't otherwise interpreted (e.g. a
// device's power-failure event log).
type RawField struct {
	id      obis.ID
	present bool
	Value   string
}

func NewRawField(id obis.ID) *RawField {
	return &RawField{id: id}
}

func (f *RawField) ID() obis.ID   { return f.id }
func (f *RawField) Present() bool { return f.present }

func (f *RawField) Parse(data []byte) (int, error) {
	f.present = true
	n, ok := rawFragments(data)
	if !ok {
		return 0, lex.ErrMissingOpenParen
	}
	f.Value = string(data[:n])
	return n, nil
}

// rawFragments consumes every consecutive "(...)" fragment at the start of
// data, returning the total length spanned. Used for records whose payload
// is a run of opaque fragments rather than a single typed value.
func rawFragments(data []byte) (int, bool) {
	total := 0
	for {
		n, ok := skipFragment(data[total:])
		if !ok {
			break
		}
		total += n
	}
	if total == 0 {
		return 0, false
	}
	return total, true
}

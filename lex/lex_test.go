package lex

import (
	"errors"
	"testing"
)

func TestStringOK(t *testing.T) {
	v, n, err := String(0, 16, []byte("(KFM5KAIFA-METER)rest"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "KFM5KAIFA-METER" {
		t.Fatalf("got %q", v)
	}
	if n != len("(KFM5KAIFA-METER)") {
		t.Fatalf("consumed %d", n)
	}
}

func TestStringTooLong(t *testing.T) {
	_, _, err := String(0, 2, []byte("(abcdef)"))
	if !errors.Is(err, ErrInvalidStringLen) {
		t.Fatalf("expected ErrInvalidStringLen, got %v", err)
	}
}

func TestStringMissingOpen(t *testing.T) {
	_, _, err := String(0, 10, []byte("abc)"))
	if !errors.Is(err, ErrMissingOpenParen) {
		t.Fatalf("expected ErrMissingOpenParen, got %v", err)
	}
}

func TestNumericWithUnit(t *testing.T) {
	v, n, err := Numeric(3, "kWh", []byte("(001.234*kWh)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1234 {
		t.Fatalf("got %d, want 1234", v)
	}
	if n != len("(001.234*kWh)") {
		t.Fatalf("consumed %d", n)
	}
}

func TestNumericCaseInsensitiveUnit(t *testing.T) {
	_, _, err := Numeric(3, "kWh", []byte("(001.234*kwh)"))
	if err != nil {
		t.Fatalf("unit comparison should be case-insensitive: %v", err)
	}
}

func TestNumericPadsMissingDecimals(t *testing.T) {
	v, _, err := Numeric(3, "", []byte("(1)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1000 {
		t.Fatalf("got %d, want 1000", v)
	}
}

func TestNumericZeroWithoutUnit(t *testing.T) {
	v, n, err := Numeric(3, "kVA", []byte("(0)"))
	if err != nil {
		t.Fatalf("zero-without-unit exception should apply: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %d, want 0", v)
	}
	if n != len("(0)") {
		t.Fatalf("consumed %d", n)
	}
}

func TestNumericMismatchedUnit(t *testing.T) {
	_, _, err := Numeric(3, "kW", []byte("(00.123*kVA)"))
	if !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestNumericMissingUnit(t *testing.T) {
	_, _, err := Numeric(0, "kWh", []byte("(123)"))
	if !errors.Is(err, ErrMissingUnit) {
		t.Fatalf("expected ErrMissingUnit, got %v", err)
	}
}

func TestCRCOK(t *testing.T) {
	v, n, err := CRC([]byte("7EF9\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x7EF9 {
		t.Fatalf("got %04X, want 7EF9", v)
	}
	if n != 4 {
		t.Fatalf("consumed %d, want 4", n)
	}
}

func TestCRCShort(t *testing.T) {
	_, _, err := CRC([]byte("7E"))
	if !errors.Is(err, ErrNoChecksum) {
		t.Fatalf("expected ErrNoChecksum, got %v", err)
	}
}

func TestCRCNonHex(t *testing.T) {
	_, _, err := CRC([]byte("7EG9"))
	if !errors.Is(err, ErrMalformedChecksum) {
		t.Fatalf("expected ErrMalformedChecksum, got %v", err)
	}
}

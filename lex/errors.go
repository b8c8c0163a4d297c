package lex

import "errors"

// Sentinel errors returned by the sub-parsers. Callers of the sub-parsers
// compare with errors.Is; the telegram parser reports them to its own
// caller as a ParseError carrying the error's message text and the byte
// offset at which it occurred, not the sentinel itself.
var (
	ErrMissingOpenParen  = errors.New("Missing (")
	ErrMissingCloseParen = errors.New("Missing )")
	ErrInvalidStringLen  = errors.New("Invalid string length")

	ErrInvalidNumber = errors.New("Invalid number")
	ErrMissingUnit   = errors.New("Missing unit")
	ErrInvalidUnit   = errors.New("Invalid unit")
	ErrExtraData     = errors.New("Extra data")

	ErrNoChecksum        = errors.New("No checksum found")
	ErrMalformedChecksum = errors.New("Incomplete or malformed checksum")
)

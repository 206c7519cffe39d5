package dreamlands

import (
	"errors"
	"fmt"
)

// ParseError is the base error type for all errors raised while reading a
// DREAMLANDS document.
type ParseError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	return e.Pos.prefix() + e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// LexError represents a lexer-level error (unterminated or empty literal,
// unknown escape sequence, both literal kinds on one line).
type LexError struct{ ParseError }

// KeyError represents an invalid or duplicated key.
type KeyError struct {
	ParseError
	Key string
}

// ValueError represents a scalar that could not be converted (malformed or
// overflowing number).
type ValueError struct{ ParseError }

// StructureError represents a violation of the indentation structure.
type StructureError struct{ ParseError }

// ImportError represents an import directive that could not be expanded.
type ImportError struct {
	ParseError
	Path string
}

func lexError(pos Position, format string, args ...any) *LexError {
	return &LexError{ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}}
}

func structureError(pos Position, format string, args ...any) *StructureError {
	return &StructureError{ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}}
}

// Errors returned (wrapped) by the encoder.
var (
	ErrNilValue        = errors.New("nil values cannot be represented")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrInvalidRoot     = errors.New("root value must be a map or a list")
	ErrEmptyContainer  = errors.New("empty nested containers cannot be represented")
	ErrEmptyString     = errors.New("empty strings cannot be represented")
	ErrInvalidFloat    = errors.New("NaN and infinite floats cannot be represented")
)

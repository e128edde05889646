package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrQueryParse       ErrorCode = "query_parse"
	ErrTypeMismatch     ErrorCode = "type_mismatch"
	ErrIncompatibleType ErrorCode = "incompatible_type"
	ErrNotFound         ErrorCode = "not_found"
	ErrDuplicate        ErrorCode = "duplicate_dimension"
	ErrSchema           ErrorCode = "schema"
	ErrBackend          ErrorCode = "backend"
)

// Error is the single error type returned by gotcount packages.
// Pos is a byte offset into the parsed text, or -1.
type Error struct {
	Code  ErrorCode
	Msg   string
	Pos   int
	Name  string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Pos >= 0 {
		base = fmt.Sprintf("%s (pos=%d)", base, e.Pos)
	}
	if e.Name != "" {
		base = fmt.Sprintf("%s (dimension=%s)", base, e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Msg: msg, Pos: -1}
}

func Wrap(code ErrorCode, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Pos: -1, Cause: cause}
}

func ParseError(pos int, msg string) *Error {
	return &Error{Code: ErrQueryParse, Msg: msg, Pos: pos}
}

func TypeMismatch(msg string) *Error {
	return &Error{Code: ErrTypeMismatch, Msg: msg, Pos: -1}
}

func IncompatibleType(msg string) *Error {
	return &Error{Code: ErrIncompatibleType, Msg: msg, Pos: -1}
}

func NotFound(name string) *Error {
	return &Error{Code: ErrNotFound, Msg: "no such dimension", Pos: -1, Name: name}
}

func Duplicate(pos int, name string) *Error {
	return &Error{Code: ErrDuplicate, Msg: "dimension given more than once", Pos: pos, Name: name}
}

func SchemaError(msg string) *Error {
	return &Error{Code: ErrSchema, Msg: msg, Pos: -1}
}

// IsCode reports whether err, or any error it wraps, is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// PosOf returns the position carried by err, or -1.
func PosOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Pos
	}
	return -1
}

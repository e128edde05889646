package gotcount

import gcerrors "github.com/gotcount/gotcount/gotcount/errors"

// Re-export error types so callers of the façade need a single import
type Error = gcerrors.Error
type ErrorCode = gcerrors.ErrorCode

const (
	ErrQueryParse       = gcerrors.ErrQueryParse
	ErrTypeMismatch     = gcerrors.ErrTypeMismatch
	ErrIncompatibleType = gcerrors.ErrIncompatibleType
	ErrNotFound         = gcerrors.ErrNotFound
	ErrDuplicate        = gcerrors.ErrDuplicate
	ErrSchema           = gcerrors.ErrSchema
	ErrBackend          = gcerrors.ErrBackend
)

func IsCode(err error, code ErrorCode) bool { return gcerrors.IsCode(err, code) }
func PosOf(err error) int                   { return gcerrors.PosOf(err) }

package errors

import (
	stderrors "errors"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a domain error carrying a machine-checkable code.
// Sentinels below are compared by identity, so wrap them with %w to add context.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrValidationFailed = newError(KindValidation, "VALIDATION_FAILED", "validation failed")
	ErrBadRequest       = newError(KindValidation, "BAD_REQUEST", "malformed request body")
	ErrInvalidID        = newError(KindValidation, "INVALID_ID", "invalid resource id")
	ErrInvalidFilter    = newError(KindValidation, "INVALID_FILTER", "invalid filter parameter")
	ErrInvalidGzip      = newError(KindValidation, "INVALID_GZIP", "request body is not valid gzip")

	ErrNotFound           = newError(KindNotFound, "NOT_FOUND", "resource not found")
	ErrUserNotFound       = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrTaskStatusNotFound = newError(KindNotFound, "TASK_STATUS_NOT_FOUND", "task status not found")
	ErrLabelNotFound      = newError(KindNotFound, "LABEL_NOT_FOUND", "label not found")
	ErrTaskNotFound       = newError(KindNotFound, "TASK_NOT_FOUND", "task not found")

	ErrEmailTaken      = newError(KindConflict, "EMAIL_TAKEN", "user with this email already exists")
	ErrStatusSlugTaken = newError(KindConflict, "STATUS_SLUG_TAKEN", "task status with this slug already exists")
	ErrStatusNameTaken = newError(KindConflict, "STATUS_NAME_TAKEN", "task status with this name already exists")
	ErrLabelNameTaken  = newError(KindConflict, "LABEL_NAME_TAKEN", "label with this name already exists")
	ErrUserHasTasks    = newError(KindConflict, "USER_HAS_TASKS", "user has assigned tasks")
	ErrStatusHasTasks  = newError(KindConflict, "STATUS_HAS_TASKS", "task status is used by tasks")
	ErrLabelHasTasks   = newError(KindConflict, "LABEL_HAS_TASKS", "label is used by tasks")
	ErrIntegrity       = newError(KindConflict, "DATA_INTEGRITY_VIOLATION", "data integrity violation")

	ErrUnauthorized       = newError(KindUnauthorized, "UNAUTHORIZED", "authentication required")
	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrForbidden          = newError(KindForbidden, "FORBIDDEN", "access denied")

	ErrInternalServer        = newError(KindInternal, "INTERNAL_ERROR", "internal server error")
	ErrGzipCompressionFailed = newError(KindInternal, "GZIP_FAILED", "response compression failed")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns a plain error; it exists so callers can import a single errors package.
func New(text string) error {
	return stderrors.New(text)
}

// Join wraps the non-nil errors into one; it returns nil when all are nil.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// KindOf returns the Kind of the first domain error in err's tree, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the machine code of the first domain error in err's tree.
func CodeOf(err error) string {
	var de *Error
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ErrInternalServer.Code
}

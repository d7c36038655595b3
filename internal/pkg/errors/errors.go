package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ValidationError carries per-field messages so handlers can re-present
// them inline next to the submitted input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

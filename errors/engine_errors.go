// errors/engine_errors.go
package errors

import "errors"

var (
	ErrDuplicateAttribute = errors.New("duplicate attribute in context")
	ErrUnknownCategory    = errors.New("unknown attribute category")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAccessDenied       = errors.New("access denied by authorization policy")
	ErrInvalidRequestData = errors.New("invalid access request data")
	ErrInternalServer     = errors.New("internal server error")
)

// errors/load_errors.go
package errors

import "errors"

var (
	ErrDuplicateID         = errors.New("duplicate policy element id")
	ErrUnknownAlgorithm    = errors.New("unsupported combining algorithm")
	ErrUnknownEffect       = errors.New("unknown rule effect")
	ErrMalformedCondition  = errors.New("malformed condition definition")
	ErrMalformedDefinition = errors.New("malformed policy set definition")
	ErrPolicyFileNotFound  = errors.New("policy file not found")
)

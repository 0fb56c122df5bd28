package service

import "errors"

// Workflow error taxonomy. Handlers map these onto HTTP statuses; nothing is
// retried automatically.
var (
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("operation not valid for current contract status")
	ErrValidation    = errors.New("validation failed")
	ErrAlreadySigned = errors.New("signature already submitted for this party")
)

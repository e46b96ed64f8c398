package service

import "errors"

// Sentinel errors shared by every service. The HTTP layer maps them to
// status codes with errors.Is, so services wrap them with fmt.Errorf("%w: ...").
var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
)

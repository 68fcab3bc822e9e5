package service

import "errors"

// Shared guard outcomes surfaced by services. Handlers map these onto 401
// and 403; they are distinct from validation and not-found failures.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
)

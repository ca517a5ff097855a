package services

import "errors"

// Failure classes the handlers translate to HTTP statuses. All validation
// and safety failures short-circuit before any external call is made.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnsafeInput      = errors.New("input contains potentially unsafe content")
	ErrUnsafeOutput     = errors.New("generated content was deemed unsafe")
	ErrGenerationFailed = errors.New("generation failed")
	ErrQuotaExceeded    = errors.New("generation quota exceeded for current plan")
)

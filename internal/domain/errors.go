package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced contract, payment,
	// checklist, template or key collection does not exist. Adapters map it
	// to 404 consistently.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden covers both identity failures (caller is not a party to
	// the contract) and disallowed transitions such as deleting a
	// fully-signed contract.
	ErrForbidden = errors.New("forbidden")
	// ErrPreconditionFailed signals that a business rule blocks the action
	// regardless of who asks, e.g. terminating with a past termination date.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrUpstream wraps processor/storage/document failures. Retryable.
	ErrUpstream = errors.New("upstream failure")

	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

package service

import "errors"

var (
	// Authentication failure subkinds. The portal boundary collapses all
	// three to ErrInvalidCredentials so callers cannot probe which
	// accounts exist or are deactivated.
	ErrNotFound    = errors.New("principal not found")
	ErrBadPassword = errors.New("password mismatch")
	ErrDeactivated = errors.New("account deactivated")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrValidation          = errors.New("validation failed")
	ErrDuplicateIdentifier = errors.New("could not allocate a unique external id")
	ErrPersistence         = errors.New("credential store write failed")
)

// LoginError is the presentation policy for login failures: the three
// authentication subkinds become the one generic signal, everything else
// (store outages and the like) passes through unchanged.
func LoginError(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadPassword) || errors.Is(err, ErrDeactivated) {
		return ErrInvalidCredentials
	}
	return err
}

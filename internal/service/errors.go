// Package service contains the application services that implement the
// business operations on top of the store interfaces.
package service

import "errors"

// Common service-level errors.
var (
	// ErrInvalidCredentials is returned by Login when the email is unknown
	// or the password does not match. Both cases deliberately share one
	// error so responses cannot be used as an account-existence oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeactivated is returned by Login for a deactivated account
	// with correct credentials. This is intentionally distinct from
	// ErrInvalidCredentials and mirrors the user-facing behavior of the
	// product: a locked-out user should understand why.
	ErrAccountDeactivated = errors.New("account is deactivated")
)

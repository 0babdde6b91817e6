// Package auth provides token issuance/validation and password hashing
// for the authentication flow.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or otherwise fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry claim has passed.
	// Tokens issued with a zero lifetime carry no expiry and never
	// produce this error.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's nbf/iat claims lie
	// in the future beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)

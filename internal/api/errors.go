package api

import (
	"errors"
	"net/http"

	"github.com/taskflow-app/taskflow-api/internal/service"
	"github.com/taskflow-app/taskflow-api/internal/service/auth"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
//
// Credential and duplicate-identity failures map to 400, matching the
// public API contract, rather than the 401/409 a fresh design might pick.
func MapErrorToStatusCode(err error) int {
	switch {
	// Credential errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated):
		return http.StatusBadRequest

	// Token errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Duplicate identity errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrAccountDeactivated):
		return "Account is deactivated"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrUsernameExists):
		return "User with this email or username already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return fallback
	}
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/taskflow-app/taskflow-api/internal/api/middleware"
	"github.com/taskflow-app/taskflow-api/internal/api/shared"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/service"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger.With("component", "auth_handler"),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.authService.Register(r.Context(), domain.RegistrationInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if verr := domain.AsValidationError(err); verr != nil {
			shared.RespondWithFieldErrors(w, r, verr.Fields)
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error during registration"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "User registered successfully", authPayload{
		Token: result.Token,
		User:  result.User,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrorsFromValidator(err))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error during login"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Login successful", authPayload{
		Token: result.Token,
		User:  result.User,
	})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", userPayload{User: user})
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/service/auth"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// AuthResult is the outcome of a successful registration or login:
// a session token plus the user it identifies.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService provides registration, login, and profile lookup.
type AuthService interface {
	// Register validates the input, persists a new user with a hashed
	// password, and issues a session token bound to the new user's ID.
	// Returns a *domain.ValidationError for field-level failures, or
	// store.ErrEmailExists/store.ErrUsernameExists on duplicates.
	Register(ctx context.Context, in domain.RegistrationInput) (*AuthResult, error)

	// Login verifies the credentials for the given email and issues a
	// session token. Returns ErrInvalidCredentials when the email is
	// unknown or the password wrong, and ErrAccountDeactivated for a
	// deactivated account.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// GetProfile resolves an authenticated identity to its user record.
	// Returns store.ErrUserNotFound if the record no longer exists.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	tx         store.Transactioner
	logger     *slog.Logger
}

// Ensure AuthServiceImpl implements AuthService interface
var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	tx store.Transactioner,
	logger *slog.Logger,
) *AuthServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		tx:         tx,
		logger:     logger.With("component", "auth_service"),
	}
}

// Register implements AuthService.Register
// The insert runs in a transaction so a failure after any partial work
// leaves no row behind; duplicate detection rides on the table's unique
// constraints rather than a racy pre-check.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegistrationInput) (*AuthResult, error) {
	user, err := domain.NewUser(in)
	if err != nil {
		s.logger.Debug("registration input failed validation", "error", err)
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // Plaintext is never needed past this point

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected: duplicate identity",
				"user_id", user.ID)
		} else {
			s.logger.Error("failed to create user",
				"error", err,
				"user_id", user.ID)
		}
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token after registration",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered successfully",
		"user_id", user.ID,
		"username", user.Username)

	return &AuthResult{Token: token, User: user}, nil
}

// Login implements AuthService.Login
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Debug("login rejected: account deactivated", "user_id", user.ID)
		return nil, ErrAccountDeactivated
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token for login",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in successfully", "user_id", user.ID)

	return &AuthResult{Token: token, User: user}, nil
}

// GetProfile implements AuthService.GetProfile
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("profile lookup: user no longer exists", "user_id", userID)
		} else {
			s.logger.Error("failed to retrieve profile", "error", err, "user_id", userID)
		}
		return nil, err
	}
	return user, nil
}

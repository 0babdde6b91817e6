package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskflow-app/taskflow-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's HashedPassword must
	// already be populated; the store never sees plaintext passwords.
	// Returns ErrEmailExists or ErrUsernameExists when the corresponding
	// unique constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by exact email match.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to the provided transaction, so
	// multiple operations can execute within a single atomic unit.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}

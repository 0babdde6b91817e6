package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskflow-app/taskflow-api/internal/domain"
)

// TaskFilter narrows a task listing. Nil/empty members match everything.
type TaskFilter struct {
	// Status matches tasks with exactly this status.
	Status *domain.TaskStatus

	// Priority matches tasks with exactly this priority.
	Priority *domain.TaskPriority

	// Search matches tasks whose title or description contains this
	// substring, case-insensitively.
	Search string
}

// TaskStore defines the interface for task data persistence.
// Every method is scoped to an owner: tasks belonging to other users are
// indistinguishable from tasks that do not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves one of the owner's tasks by ID.
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, ordered by
	// creation time descending (ties broken by ID), along with the total
	// number of matches before offset/limit were applied.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter, offset, limit int) ([]*domain.Task, int, error)

	// Update overwrites the stored row for the task, matched by ID and
	// owner. Returns ErrTaskNotFound if no such task is owned by the
	// task's OwnerID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes one of the owner's tasks permanently.
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// CountByStatus aggregates the owner's task counts per status.
	// Statuses with no tasks are present with a zero count.
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (domain.TaskStats, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

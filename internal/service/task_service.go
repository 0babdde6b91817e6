package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// Pagination bounds. Requests outside these are clamped rather than
// rejected, so sloppy clients still get a sane page instead of an error.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListTasksParams carries the filter and pagination inputs for List.
// Page is 1-indexed. Zero or negative Page/Limit select the defaults.
type ListTasksParams struct {
	Filter store.TaskFilter
	Page   int
	Limit  int
}

// Pagination describes the window a task listing covers.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TaskList is a page of tasks together with its pagination metadata.
type TaskList struct {
	Tasks      []*domain.Task `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// TaskService provides the task CRUD and query operations.
// Every operation is scoped to the resolved owner identity; a task
// belonging to another user behaves exactly like a missing one.
type TaskService interface {
	// List returns one page of the owner's tasks matching the filter,
	// newest first, with the post-filter total and page count.
	List(ctx context.Context, ownerID uuid.UUID, params ListTasksParams) (*TaskList, error)

	// Get returns one of the owner's tasks.
	// Returns store.ErrTaskNotFound if absent or owned by someone else.
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Create validates the input and persists a new task for the owner.
	// Returns a *domain.ValidationError for field-level failures,
	// including a due date already in the past.
	Create(ctx context.Context, ownerID uuid.UUID, in domain.TaskInput) (*domain.Task, error)

	// Update applies a partial update to one of the owner's tasks.
	// Absent fields stay untouched; updatedAt is refreshed regardless.
	// Returns store.ErrTaskNotFound if absent or owned by someone else.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, u domain.TaskUpdate) (*domain.Task, error)

	// Delete permanently removes one of the owner's tasks.
	// Returns store.ErrTaskNotFound if absent or owned by someone else.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// Stats returns the owner's task counts grouped by status, with
	// zero-count statuses included.
	Stats(ctx context.Context, ownerID uuid.UUID) (domain.TaskStats, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	tx        store.Transactioner
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService with the given dependencies.
func NewTaskService(taskStore store.TaskStore, tx store.Transactioner, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		tx:        tx,
		logger:    logger.With("component", "task_service"),
	}
}

// List implements TaskService.List
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, params ListTasksParams) (*TaskList, error) {
	page, limit := clampPagination(params.Page, params.Limit)
	offset := (page - 1) * limit

	tasks, total, err := s.taskStore.List(ctx, ownerID, params.Filter, offset, limit)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskList{
		Tasks: tasks,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Get implements TaskService.Get
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("task not found",
				"owner_id", ownerID,
				"task_id", taskID)
		} else {
			s.logger.Error("failed to get task",
				"error", err,
				"owner_id", ownerID,
				"task_id", taskID)
		}
		return nil, err
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *TaskServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, in domain.TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, in)
	if err != nil {
		s.logger.Debug("task input failed validation", "error", err, "owner_id", ownerID)
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID,
			"task_id", task.ID)
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID,
		"priority", task.Priority)
	return task, nil
}

// Update implements TaskService.Update
// The read-modify-write runs inside one transaction so concurrent updates
// to the same task cannot interleave their field writes.
func (s *TaskServiceImpl) Update(ctx context.Context, ownerID, taskID uuid.UUID, u domain.TaskUpdate) (*domain.Task, error) {
	if err := domain.ValidateTaskUpdate(u); err != nil {
		s.logger.Debug("task update failed validation",
			"error", err,
			"owner_id", ownerID,
			"task_id", taskID)
		return nil, err
	}

	var updated *domain.Task
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}

		task.Apply(u)

		if err := txStore.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("task not found for update",
				"owner_id", ownerID,
				"task_id", taskID)
		} else {
			s.logger.Error("failed to update task",
				"error", err,
				"owner_id", ownerID,
				"task_id", taskID)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", taskID,
		"owner_id", ownerID,
		"status", updated.Status)
	return updated, nil
}

// Delete implements TaskService.Delete
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("task not found for delete",
				"owner_id", ownerID,
				"task_id", taskID)
		} else {
			s.logger.Error("failed to delete task",
				"error", err,
				"owner_id", ownerID,
				"task_id", taskID)
		}
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// Stats implements TaskService.Stats
func (s *TaskServiceImpl) Stats(ctx context.Context, ownerID uuid.UUID) (domain.TaskStats, error) {
	stats, err := s.taskStore.CountByStatus(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to aggregate task stats", "error", err, "owner_id", ownerID)
		return domain.TaskStats{}, fmt.Errorf("failed to aggregate task stats: %w", err)
	}
	return stats, nil
}

// clampPagination normalizes the 1-indexed page and the page size.
// Non-positive pages become page 1, non-positive limits select the
// default, and oversized limits are capped at MaxPageSize.
func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return page, limit
}

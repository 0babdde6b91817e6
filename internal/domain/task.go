package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Title and description length constraints.
const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
)

// Task represents a single to-do item owned by one user.
// CompletedAt tracks when the task entered the completed status and is
// cleared again when it leaves it.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"userId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"dueDate"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskInput carries the fields for creating a task. Priority and Status
// default to medium/pending when left empty.
type TaskInput struct {
	Title       string
	Description string
	Priority    TaskPriority
	Status      TaskStatus
	DueDate     *time.Time
}

// TaskUpdate carries a partial update: nil pointers leave the
// corresponding field untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	Status      *TaskStatus
	DueDate     *time.Time
}

// TaskStats holds per-status task counts for one owner.
// Every status is present, including those with zero tasks.
type TaskStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Completed  int `json:"completed"`
}

// NewTask creates a new Task for the given owner from validated input.
// It applies defaults, generates the ID and timestamps, and rejects due
// dates that are already in the past at creation time.
// Returns a *ValidationError if any field fails validation.
func NewTask(ownerID uuid.UUID, in TaskInput) (*Task, error) {
	if in.Priority == "" {
		in.Priority = TaskPriorityMedium
	}
	if in.Status == "" {
		in.Status = TaskStatusPending
	}

	now := time.Now().UTC()
	if err := ValidateNewTask(in, now); err != nil {
		return nil, err
	}

	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == TaskStatusCompleted {
		completed := now
		task.CompletedAt = &completed
	}
	return task, nil
}

// ValidateNewTask checks the fields of a task being created, collecting
// all failures into a single *ValidationError. The current time is a
// parameter so the due-date rule is deterministic under test.
func ValidateNewTask(in TaskInput, now time.Time) error {
	var fields []FieldError

	if msg := titleError(in.Title); msg != "" {
		fields = append(fields, FieldError{"title", msg})
	}
	if len(in.Description) > DescriptionMaxLength {
		fields = append(fields, FieldError{"description", "Description must be at most 1000 characters"})
	}
	if !isValidTaskPriority(in.Priority) {
		fields = append(fields, FieldError{"priority", "Priority must be one of: low, medium, high"})
	}
	if !isValidTaskStatus(in.Status) {
		fields = append(fields, FieldError{"status", "Status must be one of: pending, in-progress, completed"})
	}
	if in.DueDate != nil && in.DueDate.Before(now) {
		fields = append(fields, FieldError{"dueDate", "Due date cannot be in the past"})
	}

	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// ValidateTaskUpdate checks only the fields present in a partial update.
func ValidateTaskUpdate(u TaskUpdate) error {
	var fields []FieldError

	if u.Title != nil {
		if msg := titleError(*u.Title); msg != "" {
			fields = append(fields, FieldError{"title", msg})
		}
	}
	if u.Description != nil && len(*u.Description) > DescriptionMaxLength {
		fields = append(fields, FieldError{"description", "Description must be at most 1000 characters"})
	}
	if u.Priority != nil && !isValidTaskPriority(*u.Priority) {
		fields = append(fields, FieldError{"priority", "Priority must be one of: low, medium, high"})
	}
	if u.Status != nil && !isValidTaskStatus(*u.Status) {
		fields = append(fields, FieldError{"status", "Status must be one of: pending, in-progress, completed"})
	}

	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// Apply merges a validated partial update into the task and refreshes
// UpdatedAt. UpdatedAt is refreshed even when the update carries no
// fields, so a no-op PUT still registers as a touch.
func (t *Task) Apply(u TaskUpdate) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.UpdateStatus(*u.Status)
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	t.UpdatedAt = time.Now().UTC()
}

// UpdateStatus transitions the task to the given status, stamping
// CompletedAt when the task becomes completed and clearing it when the
// task leaves the completed status.
func (t *Task) UpdateStatus(status TaskStatus) {
	t.Status = status
	if status == TaskStatusCompleted {
		completed := time.Now().UTC()
		t.CompletedAt = &completed
	} else if t.CompletedAt != nil {
		t.CompletedAt = nil
	}
}

func titleError(title string) string {
	if title == "" || len(title) > TitleMaxLength {
		return "Title must be between 1 and 200 characters"
	}
	return ""
}

func isValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

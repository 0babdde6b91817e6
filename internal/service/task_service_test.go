package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore mirroring the Postgres
// implementation's ordering, filtering, and ownership semantics.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *fakeTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	offset, limit int,
) ([]*domain.Task, int, error) {
	var matched []*domain.Task
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		copied := *task
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	total := len(matched)
	if offset >= total {
		return []*domain.Task{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *fakeTaskStore) CountByStatus(ctx context.Context, ownerID uuid.UUID) (domain.TaskStats, error) {
	var stats domain.TaskStats
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		switch task.Status {
		case domain.TaskStatusPending:
			stats.Pending++
		case domain.TaskStatusInProgress:
			stats.InProgress++
		case domain.TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

func newTestTaskService(tasks *fakeTaskStore) *TaskServiceImpl {
	return NewTaskService(tasks, fakeTransactioner{}, nil)
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	tasks := newFakeTaskStore()
	svc := newTestTaskService(tasks)

	task, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Equal(t, domain.TaskStatusPending, task.Status)

	stored, err := svc.Get(ctx, ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", stored.Title)

	// Validation failures never reach the store.
	_, err = svc.Create(ctx, ownerID, domain.TaskInput{Title: ""})
	require.NotNil(t, domain.AsValidationError(err))
	assert.Len(t, tasks.tasks, 1)
}

func TestTaskServiceGetScopedToOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tasks := newFakeTaskStore()
	svc := newTestTaskService(tasks)

	ownerID := uuid.New()
	task, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Private"})
	require.NoError(t, err)

	// Another user sees the task as missing, not forbidden.
	_, err = svc.Get(ctx, uuid.New(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("merges only provided fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		task, err := svc.Create(ctx, ownerID, domain.TaskInput{
			Title:       "Original",
			Description: "Keep me",
		})
		require.NoError(t, err)

		newTitle := "Renamed"
		updated, err := svc.Update(ctx, ownerID, task.ID, domain.TaskUpdate{Title: &newTitle})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, "Keep me", updated.Description)
		assert.Equal(t, task.Status, updated.Status)
	})

	t.Run("completing sets completedAt and reopening clears it", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		task, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Finish me"})
		require.NoError(t, err)

		completed := domain.TaskStatusCompleted
		updated, err := svc.Update(ctx, ownerID, task.ID, domain.TaskUpdate{Status: &completed})
		require.NoError(t, err)
		require.NotNil(t, updated.CompletedAt)

		pending := domain.TaskStatusPending
		updated, err = svc.Update(ctx, ownerID, task.ID, domain.TaskUpdate{Status: &pending})
		require.NoError(t, err)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("empty update refreshes updatedAt only", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)

		task, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Touch me"})
		require.NoError(t, err)

		// Age the stored copy so the refresh is observable.
		tasks.tasks[task.ID].UpdatedAt = task.UpdatedAt.Add(-time.Minute)

		updated, err := svc.Update(ctx, ownerID, task.ID, domain.TaskUpdate{})
		require.NoError(t, err)
		assert.Equal(t, "Touch me", updated.Title)
		assert.True(t, updated.UpdatedAt.After(task.UpdatedAt.Add(-time.Minute)))
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		newTitle := "Renamed"
		_, err := svc.Update(ctx, ownerID, uuid.New(), domain.TaskUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("invalid update rejected before lookup", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		badStatus := domain.TaskStatus("done")
		_, err := svc.Update(ctx, ownerID, uuid.New(), domain.TaskUpdate{Status: &badStatus})
		require.NotNil(t, domain.AsValidationError(err))
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	svc := newTestTaskService(newFakeTaskStore())

	task, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerID, task.ID))

	_, err = svc.Get(ctx, ownerID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// Deleting again reports not found.
	assert.ErrorIs(t, svc.Delete(ctx, ownerID, task.ID), store.ErrTaskNotFound)
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	tasks := newFakeTaskStore()
	svc := newTestTaskService(tasks)

	// Seed 15 tasks with distinct creation times, newest last.
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		task, err := domain.NewTask(ownerID, domain.TaskInput{
			Title: fmt.Sprintf("Task %02d", i),
		})
		require.NoError(t, err)
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, tasks.Create(ctx, task))
	}

	t.Run("default pagination", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, ownerID, ListTasksParams{})
		require.NoError(t, err)

		assert.Len(t, list.Tasks, 10)
		assert.Equal(t, 15, list.Pagination.Total)
		assert.Equal(t, 1, list.Pagination.Page)
		assert.Equal(t, 10, list.Pagination.Limit)
		assert.Equal(t, 2, list.Pagination.TotalPages)

		// Newest first.
		assert.Equal(t, "Task 14", list.Tasks[0].Title)
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, ownerID, ListTasksParams{Page: 2})
		require.NoError(t, err)

		assert.Len(t, list.Tasks, 5)
		assert.Equal(t, 2, list.Pagination.Page)
		assert.Equal(t, "Task 04", list.Tasks[0].Title)
		assert.Equal(t, "Task 00", list.Tasks[4].Title)
	})

	t.Run("page beyond the end is empty but counted", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, ownerID, ListTasksParams{Page: 9})
		require.NoError(t, err)

		assert.Empty(t, list.Tasks)
		assert.Equal(t, 15, list.Pagination.Total)
	})

	t.Run("out-of-range inputs are clamped", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, ownerID, ListTasksParams{Page: -3, Limit: 1000})
		require.NoError(t, err)

		assert.Equal(t, 1, list.Pagination.Page)
		assert.Equal(t, MaxPageSize, list.Pagination.Limit)
		assert.Len(t, list.Tasks, 15)
	})

	t.Run("other owners see nothing", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, uuid.New(), ListTasksParams{})
		require.NoError(t, err)

		assert.Empty(t, list.Tasks)
		assert.Equal(t, 0, list.Pagination.Total)
	})
}

func TestTaskServiceListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	tasks := newFakeTaskStore()
	svc := newTestTaskService(tasks)

	seed := []domain.TaskInput{
		{Title: "Write groceries list", Priority: domain.TaskPriorityHigh},
		{Title: "Call plumber", Status: domain.TaskStatusInProgress},
		{Title: "Review PR", Description: "the groceries service"},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, ownerID, in)
		require.NoError(t, err)
	}

	t.Run("by status", func(t *testing.T) {
		t.Parallel()
		status := domain.TaskStatusInProgress
		list, err := svc.List(ctx, ownerID, ListTasksParams{
			Filter: store.TaskFilter{Status: &status},
		})
		require.NoError(t, err)
		require.Len(t, list.Tasks, 1)
		assert.Equal(t, "Call plumber", list.Tasks[0].Title)
	})

	t.Run("by priority", func(t *testing.T) {
		t.Parallel()
		priority := domain.TaskPriorityHigh
		list, err := svc.List(ctx, ownerID, ListTasksParams{
			Filter: store.TaskFilter{Priority: &priority},
		})
		require.NoError(t, err)
		require.Len(t, list.Tasks, 1)
		assert.Equal(t, "Write groceries list", list.Tasks[0].Title)
	})

	t.Run("search spans title and description", func(t *testing.T) {
		t.Parallel()
		list, err := svc.List(ctx, ownerID, ListTasksParams{
			Filter: store.TaskFilter{Search: "GROCERIES"},
		})
		require.NoError(t, err)
		assert.Len(t, list.Tasks, 2)
		assert.Equal(t, 2, list.Pagination.Total)
	})
}

func TestTaskServiceStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ownerID := uuid.New()

	svc := newTestTaskService(newFakeTaskStore())

	// No tasks yet: all statuses present with zero counts.
	stats, err := svc.Stats(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStats{}, stats)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ownerID, domain.TaskInput{Title: "Pending"})
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, ownerID, domain.TaskInput{
		Title:  "Done",
		Status: domain.TaskStatusCompleted,
	})
	require.NoError(t, err)

	stats, err = svc.Stats(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStats{Pending: 3, Completed: 1}, stats)
}

func TestClampPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, DefaultPageSize},
		{-1, -5, 1, DefaultPageSize},
		{3, 25, 3, 25},
		{1, MaxPageSize + 1, 1, MaxPageSize},
		{1, MaxPageSize, 1, MaxPageSize},
	}

	for _, tt := range tests {
		page, limit := clampPagination(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page, "page for input (%d, %d)", tt.page, tt.limit)
		assert.Equal(t, tt.wantLimit, limit, "limit for input (%d, %d)", tt.page, tt.limit)
	}
}

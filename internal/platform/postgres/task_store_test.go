package postgres

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

func TestBuildTaskFilter(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("owner only", func(t *testing.T) {
		t.Parallel()
		where, args := buildTaskFilter(ownerID, store.TaskFilter{})

		assert.Equal(t, "WHERE user_id = $1", where)
		require.Len(t, args, 1)
		assert.Equal(t, ownerID, args[0])
	})

	t.Run("all filters", func(t *testing.T) {
		t.Parallel()
		status := domain.TaskStatusPending
		priority := domain.TaskPriorityHigh
		where, args := buildTaskFilter(ownerID, store.TaskFilter{
			Status:   &status,
			Priority: &priority,
			Search:   "milk",
		})

		assert.Equal(t,
			"WHERE user_id = $1 AND status = $2 AND priority = $3 AND (title ILIKE $4 OR description ILIKE $4)",
			where)
		require.Len(t, args, 4)
		assert.Equal(t, status, args[1])
		assert.Equal(t, priority, args[2])
		assert.Equal(t, "%milk%", args[3])
	})

	t.Run("search only keeps placeholders sequential", func(t *testing.T) {
		t.Parallel()
		where, args := buildTaskFilter(ownerID, store.TaskFilter{Search: "x"})

		assert.Equal(t, "WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2)", where)
		assert.Len(t, args, 2)
	})
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"milk", "milk"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLikePattern(tt.in), "input %q", tt.in)
	}
}

func TestUniqueViolationConstraint(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: pgUniqueViolationCode, ConstraintName: "users_email_key"}
	assert.Equal(t, "users_email_key", uniqueViolationConstraint(pgErr))

	// Wrapped errors still match.
	wrapped := fmt.Errorf("insert failed: %w", pgErr)
	assert.Equal(t, "users_email_key", uniqueViolationConstraint(wrapped))

	otherErr := &pgconn.PgError{Code: pgForeignKeyViolationCode}
	assert.Empty(t, uniqueViolationConstraint(otherErr))
	assert.Empty(t, uniqueViolationConstraint(fmt.Errorf("plain error")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: pgForeignKeyViolationCode}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	assert.False(t, isForeignKeyViolation(fmt.Errorf("plain error")))
}

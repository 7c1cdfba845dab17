package handling

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignmentListOptions(t *testing.T) {
	t.Run("no query params", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/assignments", nil)
		opts, err := ParseAssignmentListOptions(r)
		require.NoError(t, err)
		assert.Zero(t, opts.Page)
		assert.Nil(t, opts.EmailSent)
	})

	t.Run("full filter set", func(t *testing.T) {
		url := "/assignments?page=2&page_size=25&status=assigned&student_email=joanne@example.com" +
			"&email_sent=false&completed=true&created_after=2026-01-01T00:00:00Z&sort_by=due_date&sort_direction=asc"
		r := httptest.NewRequest("GET", url, nil)

		opts, err := ParseAssignmentListOptions(r)
		require.NoError(t, err)

		assert.Equal(t, 2, opts.Page)
		assert.Equal(t, 25, opts.PageSize)
		assert.Equal(t, "assigned", opts.Status)
		assert.Equal(t, "joanne@example.com", opts.StudentEmail)
		require.NotNil(t, opts.EmailSent)
		assert.False(t, *opts.EmailSent)
		require.NotNil(t, opts.Completed)
		assert.True(t, *opts.Completed)
		require.NotNil(t, opts.CreatedAfter)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), opts.CreatedAfter.UTC())
		assert.Equal(t, "due_date", opts.SortBy)
		assert.Equal(t, "ASC", opts.SortDirection)
	})

	t.Run("boolean filters do not alias", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/assignments?email_sent=false&completed=true", nil)
		opts, err := ParseAssignmentListOptions(r)
		require.NoError(t, err)
		assert.False(t, *opts.EmailSent)
		assert.True(t, *opts.Completed)
	})

	t.Run("invalid page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/assignments?page=abc", nil)
		_, err := ParseAssignmentListOptions(r)
		assert.Error(t, err)
	})

	t.Run("invalid date", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/assignments?created_before=yesterday", nil)
		_, err := ParseAssignmentListOptions(r)
		assert.Error(t, err)
	})
}

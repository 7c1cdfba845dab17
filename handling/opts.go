package handling

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lumino_server/services"
)

// ParseAssignmentListOptions parses HTTP query parameters into AssignmentListOptions
func ParseAssignmentListOptions(r *http.Request) (*services.AssignmentListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.AssignmentListOptions{}, nil
	}

	opts := &services.AssignmentListOptions{}

	// Parse pagination parameters
	if page := query.Get("page"); page != "" {
		val, err := strconv.Atoi(page)
		if err != nil {
			return nil, err
		}
		opts.Page = val
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		val, err := strconv.Atoi(pageSize)
		if err != nil {
			return nil, err
		}
		opts.PageSize = val
	}

	if status := query.Get("status"); status != "" {
		opts.Status = status
	}

	if studentEmail := query.Get("student_email"); studentEmail != "" {
		opts.StudentEmail = studentEmail
	}

	// Parse boolean filters
	if emailSent := query.Get("email_sent"); emailSent != "" {
		val, err := strconv.ParseBool(emailSent)
		if err != nil {
			return nil, err
		}
		opts.EmailSent = &val
	}

	if completed := query.Get("completed"); completed != "" {
		val, err := strconv.ParseBool(completed)
		if err != nil {
			return nil, err
		}
		opts.Completed = &val
	}

	// Parse date filters
	if createdAfter := query.Get("created_after"); createdAfter != "" {
		t, err := time.Parse(time.RFC3339, createdAfter)
		if err != nil {
			return nil, err
		}
		opts.CreatedAfter = &t
	}

	if createdBefore := query.Get("created_before"); createdBefore != "" {
		t, err := time.Parse(time.RFC3339, createdBefore)
		if err != nil {
			return nil, err
		}
		opts.CreatedBefore = &t
	}

	// Parse sorting parameters
	if sortBy := query.Get("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	return opts, nil
}

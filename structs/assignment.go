package structs

import (
	"time"

	"github.com/google/uuid"
)

// CreateAssignmentRequest creates an assignment together with its emailed
// link token. One parameterized request covers every game and student.
type CreateAssignmentRequest struct {
	StudentEmail     string     `json:"student_email" validate:"required,email"`
	StudentName      string     `json:"student_name" validate:"required,min=1,max=200"`
	GameId           string     `json:"game_id" validate:"required,max=100"`
	GameTitle        string     `json:"game_title" validate:"required,max=300"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	UseEmailLinkAuth *bool      `json:"use_email_link_auth,omitempty"`
}

// AssignmentWrittenHook is the body of the datastore write trigger. Whoever
// writes an assignment record posts its id here so the notifier can react.
type AssignmentWrittenHook struct {
	AssignmentId uuid.UUID `json:"assignment_id" validate:"required"`
}

package tables

import (
	"time"

	"github.com/google/uuid"
)

// Assignment statuses. Completion itself is driven by the game client,
// the server only stores the flag.
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
)

type Assignment struct {
	tableName        struct{}   `bun:"table:assignments,alias:asg"`
	Id               uuid.UUID  `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	StudentEmail     string     `json:"student_email" bun:"student_email,notnull"`
	StudentName      string     `json:"student_name" bun:"student_name,notnull"`
	GameId           string     `json:"game_id" bun:"game_id,notnull"`
	GameTitle        string     `json:"game_title" bun:"game_title,notnull"`
	LinkToken        string     `json:"-" bun:"link_token,notnull,unique"`
	EmailSent        bool       `json:"email_sent" bun:"email_sent,notnull,default:false"`
	UseEmailLinkAuth bool       `json:"use_email_link_auth" bun:"use_email_link_auth,notnull,default:true"`
	Completed        bool       `json:"completed" bun:"completed,notnull,default:false"`
	Status           string     `json:"status" bun:"status,notnull,default:'assigned'"`
	DueDate          *time.Time `json:"due_date,omitempty" bun:"due_date"`
	CreatedAt        time.Time  `json:"created_at" bun:"created_at,notnull,default:now()"`
	UpdatedAt        time.Time  `json:"updated_at" bun:"updated_at,notnull,default:now()"`
}

// IsPastDue reports whether the deadline has passed. Assignments without a
// deadline never expire.
func (a *Assignment) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && reference.After(*a.DueDate)
}

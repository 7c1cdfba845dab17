package tables

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentToken is the single-use credential embedded in an emailed magic
// link. The opaque token value is the primary key; expiry is logical, rows
// are never deleted.
type AssignmentToken struct {
	tableName    struct{}    `bun:"table:assignment_tokens,alias:at"`
	Token        string      `json:"-" bun:"token,pk"`
	StudentEmail string      `json:"student_email" bun:"student_email,notnull"`
	AssignmentId uuid.UUID   `json:"assignment_id" bun:"assignment_id,notnull,type:uuid"`
	ExpiresAt    time.Time   `json:"expires_at" bun:"expires_at,notnull"`
	Used         bool        `json:"used" bun:"used,notnull,default:false"`
	CreatedAt    time.Time   `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
	Assignment   *Assignment `json:"-" bun:"rel:belongs-to,join:assignment_id=id,on_delete:cascade"`
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *AssignmentToken) IsExpired(reference time.Time) bool {
	return reference.After(t.ExpiresAt)
}

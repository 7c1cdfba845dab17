package tables

import (
	"time"

	"github.com/google/uuid"
)

// User roles, in ascending order of privilege.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User is an identity keyed by email. Students are provisioned lazily on
// first successful token verification and marked verified immediately,
// since receipt of the email proves mailbox ownership.
type User struct {
	tableName     struct{}  `bun:"table:users,alias:u"`
	Id            uuid.UUID `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email         string    `json:"email" bun:"email,unique,notnull"`
	Name          string    `json:"name" bun:"name,notnull"`
	Role          string    `json:"role" bun:"role,notnull,default:'student'"`
	EmailVerified bool      `json:"email_verified" bun:"email_verified,notnull,default:false"`
	LastLogin     time.Time `json:"last_login" bun:"last_login,default:now()"`
	CreatedAt     time.Time `json:"created_at" bun:"created_at,notnull,default:now()"`
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

package structs

import (
	"time"

	"lumino_server/structs/tables"

	"github.com/google/uuid"
)

// SessionClaims are the claims carried by a minted session credential.
// AssignmentId scopes the session to a single assignment so downstream
// access control can reject everything else.
type SessionClaims struct {
	Sub          uuid.UUID `json:"sub"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AssignmentId uuid.UUID `json:"assignment_id"`
	Iat          time.Time `json:"iat"`
	Exp          time.Time `json:"exp"`
	Jti          uuid.UUID `json:"jti"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyResult is what a successful token verification yields.
type VerifyResult struct {
	SessionToken string       `json:"session_token"`
	AssignmentId uuid.UUID    `json:"assignment_id"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *tables.User `json:"user"`
}

// PeekResult exposes assignment linkage for a token without consuming it.
type PeekResult struct {
	Found        bool      `json:"found"`
	AssignmentId uuid.UUID `json:"assignment_id,omitempty"`
	LinkToken    string    `json:"link_token,omitempty"`
}

type PromoteRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

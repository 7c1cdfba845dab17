package services

import (
	"context"
	"strings"
	"time"

	"lumino_server/database"
	"lumino_server/lib"
	"lumino_server/structs"
	"lumino_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type TokenService struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	tokens      TokenStore
	assignments AssignmentStore
	users       UserStore
}

func NewTokenService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *TokenService {
	return &TokenService{
		logger:      logger,
		cfg:         cfg,
		tokens:      &dbTokenStore{db: db},
		assignments: &dbAssignmentStore{db: db},
		users:       &dbUserStore{db: db},
	}
}

// newTokenService wires explicit stores, used by tests.
func newTokenService(cfg *structs.Config, logger *gecho.Logger, tokens TokenStore, assignments AssignmentStore, users UserStore) *TokenService {
	return &TokenService{
		logger:      logger,
		cfg:         cfg,
		tokens:      tokens,
		assignments: assignments,
		users:       users,
	}
}

// Verify exchanges a single-use assignment token for a session credential.
// Expiry is checked before reuse so a token that is both expired and used
// reports as expired. The burn is a conditional update: when two requests
// race on the same token, exactly one gets a session and the loser is told
// the token was already used.
func (ts *TokenService) Verify(ctx context.Context, token string) (*structs.VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, lib.ErrInvalidArgument
	}

	record, err := ts.tokens.FindByToken(ctx, token)
	if err != nil {
		ts.logger.Error("Failed to look up assignment token", gecho.Field("error", lib.MapPgError(err)))
		return nil, err
	}
	if record == nil {
		return nil, lib.ErrNotFound
	}

	now := time.Now()
	if record.IsExpired(now) {
		return nil, lib.ErrExpiredToken
	}
	if record.Used {
		return nil, lib.ErrTokenUsed
	}

	user, err := ts.resolveIdentity(ctx, record.StudentEmail)
	if err != nil {
		return nil, err
	}

	sessionToken, expiresAt, err := lib.GenerateSessionToken(
		user,
		record.AssignmentId,
		ts.cfg.Auth.SessionTokenSecret,
		ts.cfg.Auth.SessionTokenExpiry,
	)
	if err != nil {
		ts.logger.Error("Failed to mint session token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}

	burned, err := ts.tokens.MarkUsed(ctx, token)
	if err != nil {
		ts.logger.Error("Failed to burn assignment token", gecho.Field("error", lib.MapPgError(err)))
		return nil, err
	}
	if !burned {
		// Lost the race, another request consumed the token first
		return nil, lib.ErrTokenUsed
	}

	if err := ts.users.UpdateLastLogin(ctx, user.Id); err != nil {
		ts.logger.Warn("Failed to record last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	ts.logger.Info("Assignment token verified",
		gecho.Field("user_id", user.Id),
		gecho.Field("assignment_id", record.AssignmentId),
		gecho.Field("email", lib.MaskEmail(user.Email)),
	)

	return &structs.VerifyResult{
		SessionToken: sessionToken,
		AssignmentId: record.AssignmentId,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

// Peek reports which assignment a token belongs to without consuming it.
// Expired and used tokens still resolve, callers only learn the linkage.
func (ts *TokenService) Peek(ctx context.Context, token string) (*structs.PeekResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, lib.ErrInvalidArgument
	}

	record, err := ts.tokens.FindByToken(ctx, token)
	if err != nil {
		ts.logger.Error("Failed to look up assignment token", gecho.Field("error", lib.MapPgError(err)))
		return nil, err
	}
	if record == nil {
		return &structs.PeekResult{Found: false}, nil
	}

	return &structs.PeekResult{
		Found:        true,
		AssignmentId: record.AssignmentId,
		LinkToken:    record.Token,
	}, nil
}

// AuthorizeAssignmentAccess checks that the caller owns the assignment and
// returns its link token. A missing caller email fails closed.
func (ts *TokenService) AuthorizeAssignmentAccess(ctx context.Context, callerEmail string, assignmentID uuid.UUID) (string, error) {
	callerEmail = strings.TrimSpace(callerEmail)
	if callerEmail == "" {
		return "", lib.ErrInvalidArgument
	}

	assignment, err := ts.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		ts.logger.Error("Failed to look up assignment", gecho.Field("error", lib.MapPgError(err)), gecho.Field("assignment_id", assignmentID))
		return "", err
	}
	if assignment == nil {
		return "", lib.ErrNotFound
	}

	if !strings.EqualFold(assignment.StudentEmail, callerEmail) {
		ts.logger.Warn("Assignment access denied",
			gecho.Field("assignment_id", assignmentID),
			gecho.Field("caller", lib.MaskEmail(callerEmail)),
		)
		return "", lib.ErrEmailMismatch
	}

	return assignment.LinkToken, nil
}

// resolveIdentity finds the user behind a verified magic link, creating a
// pre-verified student record on first login. Possession of the link is the
// proof of mailbox ownership.
func (ts *TokenService) resolveIdentity(ctx context.Context, email string) (*tables.User, error) {
	user, err := ts.users.FindByEmail(ctx, email)
	if err != nil {
		ts.logger.Error("Failed to look up user", gecho.Field("error", lib.MapPgError(err)), gecho.Field("email", lib.MaskEmail(email)))
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	created, err := ts.users.Insert(ctx, &tables.User{
		Id:            uuid.New(),
		Email:         strings.ToLower(email),
		Role:          tables.RoleStudent,
		EmailVerified: true,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		if lib.IsUniqueViolation(err) {
			// Another request created the user first
			return ts.users.FindByEmail(ctx, email)
		}
		ts.logger.Error("Failed to create user", gecho.Field("error", lib.MapPgError(err)), gecho.Field("email", lib.MaskEmail(email)))
		return nil, err
	}

	ts.logger.Info("Created student identity from verified magic link",
		gecho.Field("user_id", created.Id),
		gecho.Field("email", lib.MaskEmail(created.Email)),
	)

	return created, nil
}

package services

import (
	"context"
	"time"

	"lumino_server/database"
	"lumino_server/structs/tables"

	"github.com/google/uuid"
)

// TokenStore is the persistence seam for assignment tokens.
type TokenStore interface {
	FindByToken(ctx context.Context, token string) (*tables.AssignmentToken, error)
	// MarkUsed flips used to true only when it is still false. Returns false
	// when another caller already burned the token.
	MarkUsed(ctx context.Context, token string) (bool, error)
	Insert(ctx context.Context, record *tables.AssignmentToken) (*tables.AssignmentToken, error)
}

// AssignmentStore is the persistence seam for assignments.
type AssignmentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tables.Assignment, error)
	ListUnsent(ctx context.Context) ([]tables.Assignment, error)
	// MarkEmailSent flips email_sent to true only when it is still false.
	MarkEmailSent(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, record *tables.Assignment) (*tables.Assignment, error)
}

// UserStore is the persistence seam for user identities.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*tables.User, error)
	Insert(ctx context.Context, record *tables.User) (*tables.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (bool, error)
}

type dbTokenStore struct {
	db *database.DB
}

func (s *dbTokenStore) FindByToken(ctx context.Context, token string) (*tables.AssignmentToken, error) {
	return database.Query[tables.AssignmentToken](s.db).
		Where("token", token).
		First(ctx)
}

func (s *dbTokenStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	rows, err := database.Query[tables.AssignmentToken](s.db).
		Where("token", token).
		Where("used", false).
		Update(ctx, map[string]any{"used": true})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *dbTokenStore) Insert(ctx context.Context, record *tables.AssignmentToken) (*tables.AssignmentToken, error) {
	return database.Query[tables.AssignmentToken](s.db).Insert(ctx, record)
}

type dbAssignmentStore struct {
	db *database.DB
}

func (s *dbAssignmentStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.Assignment, error) {
	return database.Query[tables.Assignment](s.db).
		Where("id", id).
		First(ctx)
}

func (s *dbAssignmentStore) ListUnsent(ctx context.Context) ([]tables.Assignment, error) {
	return database.Query[tables.Assignment](s.db).
		Where("email_sent", false).
		Where("use_email_link_auth", true).
		OrderBy("created_at", database.ASC).
		All(ctx)
}

func (s *dbAssignmentStore) MarkEmailSent(ctx context.Context, id uuid.UUID) (bool, error) {
	rows, err := database.Query[tables.Assignment](s.db).
		Where("id", id).
		Where("email_sent", false).
		Update(ctx, map[string]any{"email_sent": true, "updated_at": time.Now()})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *dbAssignmentStore) Insert(ctx context.Context, record *tables.Assignment) (*tables.Assignment, error) {
	return database.Query[tables.Assignment](s.db).Insert(ctx, record)
}

type dbUserStore struct {
	db *database.DB
}

func (s *dbUserStore) FindByEmail(ctx context.Context, email string) (*tables.User, error) {
	return database.Query[tables.User](s.db).
		WhereRaw("LOWER(email) = LOWER(?)", email).
		First(ctx)
}

func (s *dbUserStore) Insert(ctx context.Context, record *tables.User) (*tables.User, error) {
	return database.Query[tables.User](s.db).Insert(ctx, record)
}

func (s *dbUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Query[tables.User](s.db).
		Where("id", id).
		Update(ctx, map[string]any{"last_login": time.Now()})
	return err
}

func (s *dbUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role string) (bool, error) {
	rows, err := database.Query[tables.User](s.db).
		Where("id", id).
		Update(ctx, map[string]any{"role": role})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

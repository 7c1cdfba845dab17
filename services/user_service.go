package services

import (
	"context"

	"lumino_server/database"
	"lumino_server/lib"
	"lumino_server/structs"
	"lumino_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type UserService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	users  UserStore
}

func NewUserService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *UserService {
	return &UserService{
		logger: logger,
		cfg:    cfg,
		users:  &dbUserStore{db: db},
	}
}

// Promote changes a user's role. Admin-only at the route layer.
func (us *UserService) Promote(ctx context.Context, id uuid.UUID, role string) error {
	if !tables.ValidRole(role) {
		return lib.ErrInvalidArgument
	}

	updated, err := us.users.UpdateRole(ctx, id, role)
	if err != nil {
		us.logger.Error("Failed to update user role", gecho.Field("error", lib.MapPgError(err)), gecho.Field("user_id", id))
		return err
	}
	if !updated {
		return lib.ErrNotFound
	}

	us.logger.Info("User role updated", gecho.Field("user_id", id), gecho.Field("role", role))
	return nil
}

// GetByEmail fetches a user by email, case-insensitively.
func (us *UserService) GetByEmail(ctx context.Context, email string) (*tables.User, error) {
	user, err := us.users.FindByEmail(ctx, email)
	if err != nil {
		us.logger.Error("Failed to fetch user", gecho.Field("error", lib.MapPgError(err)), gecho.Field("email", lib.MaskEmail(email)))
		return nil, err
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	return user, nil
}

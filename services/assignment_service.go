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
	"github.com/uptrace/bun"
)

// AssignmentListOptions are the supported filters for listing assignments.
type AssignmentListOptions struct {
	Page          int
	PageSize      int
	Status        string
	StudentEmail  string
	EmailSent     *bool
	Completed     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SortBy        string
	SortDirection string
}

// Sortable columns for assignment listings. Anything else falls back to
// created_at to keep user input out of SQL identifiers.
var assignmentSortColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"due_date":      true,
	"student_email": true,
	"game_title":    true,
	"status":        true,
}

type AssignmentService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
}

func NewAssignmentService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *AssignmentService {
	return &AssignmentService{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// Create stores a new assignment together with its single-use magic-link
// token. Both rows commit atomically so a stored assignment always has a
// token to email. The same opaque value serves as the assignment's link
// token and the token row's key.
func (as *AssignmentService) Create(ctx context.Context, req *structs.CreateAssignmentRequest) (*tables.Assignment, error) {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		as.logger.Error("Failed to generate link token", gecho.Field("error", err))
		return nil, err
	}

	useEmailLinkAuth := true
	if req.UseEmailLinkAuth != nil {
		useEmailLinkAuth = *req.UseEmailLinkAuth
	}

	now := time.Now()
	assignment := &tables.Assignment{
		Id:               uuid.New(),
		StudentEmail:     strings.ToLower(strings.TrimSpace(req.StudentEmail)),
		StudentName:      strings.TrimSpace(req.StudentName),
		GameId:           req.GameId,
		GameTitle:        req.GameTitle,
		LinkToken:        token,
		UseEmailLinkAuth: useEmailLinkAuth,
		Status:           tables.AssignmentStatusAssigned,
		DueDate:          req.DueDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tokenRecord := &tables.AssignmentToken{
		Token:        token,
		StudentEmail: assignment.StudentEmail,
		AssignmentId: assignment.Id,
		ExpiresAt:    now.Add(as.cfg.Email.LinkTokenExpiry),
		CreatedAt:    now,
	}

	err = database.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(assignment).Returning("*").Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(tokenRecord).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		as.logger.Error("Failed to create assignment", gecho.Field("error", lib.MapPgError(err)), gecho.Field("student", lib.MaskEmail(assignment.StudentEmail)))
		return nil, lib.MapPgError(err)
	}

	as.logger.Info("Assignment created",
		gecho.Field("assignment_id", assignment.Id),
		gecho.Field("game_id", assignment.GameId),
		gecho.Field("student", lib.MaskEmail(assignment.StudentEmail)),
	)

	return assignment, nil
}

// GetByID fetches a single assignment.
func (as *AssignmentService) GetByID(ctx context.Context, id uuid.UUID) (*tables.Assignment, error) {
	assignment, err := database.FindByID[tables.Assignment](as.db, ctx, id)
	if err != nil {
		as.logger.Error("Failed to fetch assignment", gecho.Field("error", lib.MapPgError(err)), gecho.Field("assignment_id", id))
		return nil, err
	}
	if assignment == nil {
		return nil, lib.ErrNotFound
	}
	return assignment, nil
}

// List returns a filtered, paginated page of assignments.
func (as *AssignmentService) List(ctx context.Context, opts *AssignmentListOptions) (*database.PaginationResult[tables.Assignment], error) {
	if opts == nil {
		opts = &AssignmentListOptions{}
	}

	q := database.Query[tables.Assignment](as.db)

	if opts.Status != "" {
		q = q.Where("status", opts.Status)
	}
	if opts.StudentEmail != "" {
		q = q.WhereRaw("LOWER(student_email) = LOWER(?)", opts.StudentEmail)
	}
	if opts.EmailSent != nil {
		q = q.Where("email_sent", *opts.EmailSent)
	}
	if opts.Completed != nil {
		q = q.Where("completed", *opts.Completed)
	}
	if opts.CreatedAfter != nil {
		q = q.WhereOp("created_at", ">=", *opts.CreatedAfter)
	}
	if opts.CreatedBefore != nil {
		q = q.WhereOp("created_at", "<=", *opts.CreatedBefore)
	}

	sortBy := opts.SortBy
	if !assignmentSortColumns[sortBy] {
		sortBy = "created_at"
	}
	direction := database.DESC
	if strings.EqualFold(opts.SortDirection, "ASC") {
		direction = database.ASC
	}
	q = q.OrderBy(sortBy, direction)

	return database.Paginate(q, ctx, opts.Page, opts.PageSize)
}

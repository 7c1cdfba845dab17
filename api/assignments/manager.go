package assignments

import (
	"context"

	"lumino_server/api/middleware"
	"lumino_server/services"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// assignmentNotifier is the slice of the notifier these handlers use.
type assignmentNotifier interface {
	HandleAssignmentWritten(ctx context.Context, assignmentID uuid.UUID) error
	NotifyPending(ctx context.Context) (int, error)
}

type AssignmentRoutesManager struct {
	logger            *gecho.Logger
	assignmentService *services.AssignmentService
	notifierService   assignmentNotifier
	tokenService      *services.TokenService
	cfg               *structs.Config
	mw                *middleware.Middleware
}

func NewAssignmentRoutesManager(
	logger *gecho.Logger,
	assignmentService *services.AssignmentService,
	notifierService *services.NotifierService,
	tokenService *services.TokenService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AssignmentRoutesManager {
	return &AssignmentRoutesManager{
		logger:            logger,
		assignmentService: assignmentService,
		notifierService:   notifierService,
		tokenService:      tokenService,
		cfg:               cfg,
		mw:                mw,
	}
}

func (arm *AssignmentRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		// Teacher-facing management
		r.Group(func(r chi.Router) {
			r.Use(arm.mw.TeacherAuthMiddleware)
			r.Post("/", arm.HandleCreate)
			r.Get("/", arm.HandleList)
		})

		// Student-facing link retrieval, scoped to the session owner
		r.Group(func(r chi.Router) {
			r.Use(arm.mw.UserAuthMiddleware)
			r.Get("/{id}/link", arm.HandleGetLink)
		})

		// Operational notification triggers
		r.Group(func(r chi.Router) {
			r.Use(arm.mw.AdminAuthMiddleware)
			r.Post("/{id}/notify", arm.HandleNotify)
			r.Post("/notify-pending", arm.HandleNotifyPending)
		})
	})

	// Datastore write hook, authenticated by shared secret
	r.Group(func(r chi.Router) {
		r.Use(arm.mw.WebhookAuthMiddleware)
		r.Post("/hooks/assignments", arm.HandleWriteHook)
	})
}

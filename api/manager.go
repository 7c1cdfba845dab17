package api

import (
	"lumino_server/api/admin"
	"lumino_server/api/assignments"
	"lumino_server/api/auth"
	"lumino_server/api/debug"
	"lumino_server/api/health"
	"lumino_server/api/middleware"
	"lumino_server/database"
	"lumino_server/services"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	authRoutes       *auth.AuthRoutesManager
	assignmentRoutes *assignments.AssignmentRoutesManager
	adminRoutes      *admin.AdminRoutesManager
	healthRoutes     *health.HealthRoutesManager
	debugRoutes      *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	mw *middleware.Middleware,
) *routerManager {
	sm := services.NewServiceManager(logger, cfg, db)

	return &routerManager{
		authRoutes:       auth.NewAuthRoutesManager(logger, sm.TokenService, sm.CacheService, cfg, mw),
		assignmentRoutes: assignments.NewAssignmentRoutesManager(logger, sm.AssignmentService, sm.NotifierService, sm.TokenService, cfg, mw),
		adminRoutes:      admin.NewAdminRoutesManager(logger, sm.UserService, mw),
		healthRoutes:     health.NewHealthRoutesManager(sm.HealthService),
		debugRoutes:      debug.NewDebugRoutesManager(sm.CacheService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.authRoutes.RegisterRoutes(r)
	rm.assignmentRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}

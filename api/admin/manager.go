package admin

import (
	"lumino_server/api/middleware"
	"lumino_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger      *gecho.Logger
	userService *services.UserService
	mw          *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	userService *services.UserService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:      logger,
		userService: userService,
		mw:          mw,
	}
}

func (adm *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(adm.mw.AdminAuthMiddleware)
			r.Post("/users/{id}/promote", adm.HandlePromote)
		})
	})
}

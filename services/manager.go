package services

import (
	"lumino_server/database"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	TokenService      *TokenService
	AssignmentService *AssignmentService
	NotifierService   *NotifierService
	UserService       *UserService
	EmailService      *EmailService
	CacheService      *CacheService
	HealthService     *HealthService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	tokenService := NewTokenService(cfg, logger, db)
	assignmentService := NewAssignmentService(cfg, logger, db)
	notifierService := NewNotifierService(cfg, logger, db)
	userService := NewUserService(cfg, logger, db)
	healthService := NewHealthService(logger, db, cacheService)

	return &ServiceManager{
		TokenService:      tokenService,
		AssignmentService: assignmentService,
		NotifierService:   notifierService,
		UserService:       userService,
		EmailService:      emailService,
		CacheService:      cacheService,
		HealthService:     healthService,
	}
}

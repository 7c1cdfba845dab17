package auth

import (
	"net/http"

	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleMe returns the identity and assignment scope of the current session.
func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := lib.ExtractClaims(r, arm.cfg.Auth.SessionTokenSecret)
	if err != nil {
		arm.logger.Warn("Session token not found or invalid", gecho.Field("error", err))
		gecho.Unauthorized(w, gecho.WithMessage("Invalid session token"), gecho.Send())
		return
	}

	// Cached identity is fresher than the claims (role promotions show up)
	if user, err := arm.cacheService.GetIdentityFromCache(claims.Email); err == nil && user != nil {
		gecho.Success(w,
			gecho.WithData(map[string]any{
				"user":          user,
				"assignment_id": claims.AssignmentId,
				"expires_at":    claims.Exp,
			}),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"claims":        claims,
			"assignment_id": claims.AssignmentId,
			"expires_at":    claims.Exp,
		}),
		gecho.Send(),
	)
}

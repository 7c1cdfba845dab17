package auth

import (
	"net/http"

	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {

	sessionToken, err := lib.GetCookieValue(lib.SessionCookieName, r)
	if err != nil {
		gecho.Success(w,
			gecho.WithMessage("No session found"),
			gecho.Send(),
		)
		return
	}

	claims, err := lib.ParseToken(sessionToken, arm.cfg.Auth.SessionTokenSecret)
	if err != nil {
		arm.logger.Error("Failed to parse session token during logout", gecho.Field("error", err))
		gecho.Success(w,
			gecho.WithMessage("Invalid session token"),
			gecho.Send(),
		)
		return
	}

	err = arm.cacheService.BlacklistToken(claims.Jti, claims.Exp)
	if err != nil {
		arm.logger.Error("Failed to blacklist session during logout", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to logout"),
			gecho.Send(),
		)
		return
	}

	// Also clear the cached identity
	if err = arm.cacheService.DeleteIdentityFromCache(claims.Email); err != nil {
		arm.logger.Error("Failed to clear identity cache during logout", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
	} else {
		arm.logger.Debug("Identity cache cleared during logout", gecho.Field("user_id", claims.Sub))
	}

	lib.ClearCookie(lib.SessionCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}

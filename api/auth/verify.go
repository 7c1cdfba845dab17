package auth

import (
	"errors"
	"net/http"

	"lumino_server/lib"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleVerify exchanges a magic-link token for a session. The token is
// burned on success, a second verification of the same token is rejected.
func (arm *AuthRoutesManager) HandleVerify(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.VerifyTokenRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("A token is required"), gecho.Send())
		return
	}

	result, err := arm.tokenService.Verify(r.Context(), body.Token)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrInvalidArgument):
			gecho.BadRequest(w, gecho.WithMessage("A token is required"), gecho.Send())
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w, gecho.WithMessage("This link is not valid"), gecho.Send())
		case errors.Is(err, lib.ErrExpiredToken):
			gecho.Unauthorized(w, gecho.WithMessage("This link has expired. Ask your teacher for a new one"), gecho.Send())
		case errors.Is(err, lib.ErrTokenUsed):
			gecho.Forbidden(w, gecho.WithMessage("This link has already been used"), gecho.Send())
		default:
			arm.logger.Error("Token verification failed", gecho.Field("error", err))
			gecho.InternalServerError(w, gecho.WithMessage("Unable to verify this link. Please try again"), gecho.Send())
		}
		return
	}

	lib.SetCookie(lib.SessionCookieName, result.SessionToken, result.ExpiresAt, w)

	// Warm the identity cache asynchronously
	go func() {
		if err := arm.cacheService.SetIdentityInCache(result.User); err != nil {
			arm.logger.Warn("Failed to cache identity after verification", gecho.Field("error", err), gecho.Field("user_id", result.User.Id))
		}
	}()

	gecho.Success(w,
		gecho.WithMessage("Token verified"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

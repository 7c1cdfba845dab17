package auth

import (
	"errors"
	"net/http"

	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandlePeek resolves which assignment a token belongs to without burning
// it, so the game client can render the right assignment before the student
// commits to verification.
func (arm *AuthRoutesManager) HandlePeek(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	result, err := arm.tokenService.Peek(r.Context(), token)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidArgument) {
			gecho.BadRequest(w, gecho.WithMessage("A token is required"), gecho.Send())
			return
		}
		arm.logger.Error("Token peek failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to look up this link. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

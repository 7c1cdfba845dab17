package admin

import (
	"errors"
	"net/http"

	"lumino_server/lib"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlePromote changes a user's role, e.g. student to teacher.
func (adm *AdminRoutesManager) HandlePromote(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid user id"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.PromoteRequest](r)
	if err != nil {
		adm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("A valid role is required"), gecho.Send())
		return
	}

	if err := adm.userService.Promote(r.Context(), userID, body.Role); err != nil {
		switch {
		case errors.Is(err, lib.ErrInvalidArgument):
			gecho.BadRequest(w, gecho.WithMessage("A valid role is required"), gecho.Send())
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w, gecho.WithMessage("User not found"), gecho.Send())
		default:
			gecho.InternalServerError(w, gecho.WithMessage("Unable to update the user role. Please try again"), gecho.Send())
		}
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User role updated"),
		gecho.Send(),
	)
}

package assignments

import (
	"errors"
	"fmt"
	"net/http"

	"lumino_server/api/middleware"
	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandleGetLink returns the magic link for an assignment the caller owns.
// Ownership is the session email matching the assignment's student email,
// case-insensitively.
func (arm *AssignmentRoutesManager) HandleGetLink(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid assignment id"), gecho.Send())
		return
	}

	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing session token"), gecho.Send())
		return
	}

	linkToken, err := arm.tokenService.AuthorizeAssignmentAccess(r.Context(), claims.Email, assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrInvalidArgument):
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing session token"), gecho.Send())
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w, gecho.WithMessage("Assignment not found"), gecho.Send())
		case errors.Is(err, lib.ErrEmailMismatch):
			gecho.Forbidden(w, gecho.WithMessage("This assignment belongs to another student"), gecho.Send())
		default:
			gecho.InternalServerError(w, gecho.WithMessage("Unable to fetch the assignment link. Please try again"), gecho.Send())
		}
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"link_token": linkToken,
			"play_url":   fmt.Sprintf("%s/play?token=%s", arm.cfg.Server.FrontendURL, linkToken),
		}),
		gecho.Send(),
	)
}

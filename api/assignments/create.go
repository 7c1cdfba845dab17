package assignments

import (
	"context"
	"errors"
	"net/http"

	"lumino_server/handling"
	"lumino_server/lib"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleCreate stores a new assignment and kicks off the notification email
// in the background. The response does not wait for the provider.
func (arm *AssignmentRoutesManager) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateAssignmentRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check the assignment details and try again"), gecho.Send())
		return
	}

	assignment, err := arm.assignmentService.Create(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			gecho.Conflict(w, gecho.WithMessage("An assignment with this link already exists"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to create assignment", arm.logger, w)
		return
	}

	// Notify asynchronously, the pending sweep covers failures. Uses a fresh
	// context because the request context dies with the response.
	go func() {
		if err := arm.notifierService.HandleAssignmentWritten(context.Background(), assignment.Id); err != nil {
			arm.logger.Warn("Assignment notification deferred to sweep", gecho.Field("error", err), gecho.Field("assignment_id", assignment.Id))
		}
	}()

	gecho.Success(w,
		gecho.WithMessage("Assignment created"),
		gecho.WithData(assignment),
		gecho.Send(),
	)
}

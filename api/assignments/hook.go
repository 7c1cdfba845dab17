package assignments

import (
	"errors"
	"net/http"

	"lumino_server/api/health"
	"lumino_server/lib"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleWriteHook is the datastore write hook: the assignment store calls it
// after persisting a new assignment, and the notifier reacts by emailing the
// student. Authentication happens in the webhook middleware.
func (arm *AssignmentRoutesManager) HandleWriteHook(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AssignmentWrittenHook](r)
	if err != nil {
		arm.logger.Warn("Failed to extract hook body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("An assignment_id is required"), gecho.Send())
		return
	}

	if err := arm.notifierService.HandleAssignmentWritten(r.Context(), body.AssignmentId); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			// No dispatch was attempted, keep it out of the failure counter
			gecho.NotFound(w, gecho.WithMessage("Assignment not found"), gecho.Send())
			return
		}
		health.EmailsSent.WithLabelValues("failure").Inc()
		// The record stays pending, the sweep will retry
		gecho.InternalServerError(w, gecho.WithMessage("Notification failed, assignment remains pending"), gecho.Send())
		return
	}
	health.EmailsSent.WithLabelValues("success").Inc()

	gecho.Success(w,
		gecho.WithMessage("Hook processed"),
		gecho.Send(),
	)
}

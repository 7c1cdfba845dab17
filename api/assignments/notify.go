package assignments

import (
	"errors"
	"net/http"

	"lumino_server/api/health"
	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandleNotify dispatches the notification email for one assignment. Safe to
// call repeatedly, assignments already marked sent are skipped.
func (arm *AssignmentRoutesManager) HandleNotify(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid assignment id"), gecho.Send())
		return
	}

	if err := arm.notifierService.HandleAssignmentWritten(r.Context(), assignmentID); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			// No dispatch was attempted, keep it out of the failure counter
			gecho.NotFound(w, gecho.WithMessage("Assignment not found"), gecho.Send())
			return
		}
		health.EmailsSent.WithLabelValues("failure").Inc()
		if errors.Is(err, lib.ErrInvalidPayload) {
			gecho.BadRequest(w, gecho.WithMessage("Assignment has no valid recipient address"), gecho.Send())
			return
		}
		gecho.InternalServerError(w, gecho.WithMessage("Unable to send the notification. The assignment stays pending"), gecho.Send())
		return
	}
	health.EmailsSent.WithLabelValues("success").Inc()

	gecho.Success(w,
		gecho.WithMessage("Notification processed"),
		gecho.Send(),
	)
}

// HandleNotifyPending sweeps every assignment still owing an email.
func (arm *AssignmentRoutesManager) HandleNotifyPending(w http.ResponseWriter, r *http.Request) {
	sent, err := arm.notifierService.NotifyPending(r.Context())
	if err != nil {
		gecho.InternalServerError(w, gecho.WithMessage("Unable to run the notification sweep. Please try again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Notification sweep finished"),
		gecho.WithData(map[string]int{"sent": sent}),
		gecho.Send(),
	)
}

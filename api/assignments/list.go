package assignments

import (
	"net/http"

	"lumino_server/handling"

	"github.com/MonkyMars/gecho"
)

func (arm *AssignmentRoutesManager) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseAssignmentListOptions(r)
	if err != nil {
		arm.logger.Warn("Invalid list filters", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid filter parameters"), gecho.Send())
		return
	}

	result, err := arm.assignmentService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to list assignments", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

package services

import (
	"context"

	"lumino_server/database"
	"lumino_server/lib"
	"lumino_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// NotifierService reacts to newly written assignments by dispatching the
// magic-link email. Delivery is at-least-once: the sent flag is flipped only
// after the provider accepts the message, so a crash in between can produce
// a duplicate email but never a silently unnotified assignment.
type NotifierService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	assignments  AssignmentStore
	emailService *EmailService
}

func NewNotifierService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *NotifierService {
	return &NotifierService{
		logger:       logger,
		cfg:          cfg,
		assignments:  &dbAssignmentStore{db: db},
		emailService: NewEmailService(logger, cfg),
	}
}

// newNotifierService wires explicit collaborators, used by tests.
func newNotifierService(cfg *structs.Config, logger *gecho.Logger, assignments AssignmentStore, emailService *EmailService) *NotifierService {
	return &NotifierService{
		logger:       logger,
		cfg:          cfg,
		assignments:  assignments,
		emailService: emailService,
	}
}

// HandleAssignmentWritten notifies the student of one assignment. Records
// that opted out of email link auth and records already marked sent are
// skipped without touching the provider. Validation or provider failures
// leave the record pending so a later sweep retries it.
func (ns *NotifierService) HandleAssignmentWritten(ctx context.Context, assignmentID uuid.UUID) error {
	assignment, err := ns.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		ns.logger.Error("Failed to load assignment for notification", gecho.Field("error", lib.MapPgError(err)), gecho.Field("assignment_id", assignmentID))
		return err
	}
	if assignment == nil {
		return lib.ErrNotFound
	}

	if !assignment.UseEmailLinkAuth {
		ns.logger.Debug("Assignment opted out of email link auth, skipping notification", gecho.Field("assignment_id", assignmentID))
		return nil
	}
	if assignment.EmailSent {
		ns.logger.Debug("Assignment already notified, skipping", gecho.Field("assignment_id", assignmentID))
		return nil
	}

	payload := ns.emailService.BuildAssignmentEmail(assignment)
	if _, err := ns.emailService.Send(ctx, payload); err != nil {
		return err
	}

	marked, err := ns.assignments.MarkEmailSent(ctx, assignmentID)
	if err != nil {
		// The email went out; the pending flag will cause a duplicate on
		// the next sweep, which at-least-once delivery allows.
		ns.logger.Error("Failed to mark assignment as notified", gecho.Field("error", lib.MapPgError(err)), gecho.Field("assignment_id", assignmentID))
		return err
	}
	if !marked {
		ns.logger.Warn("Assignment was marked sent concurrently, duplicate email likely", gecho.Field("assignment_id", assignmentID))
	}

	return nil
}

// NotifyPending sweeps assignments that still owe a notification email and
// dispatches each one. Failures are logged and skipped so one bad record
// cannot stall the rest. Returns the number of successful dispatches.
func (ns *NotifierService) NotifyPending(ctx context.Context) (int, error) {
	pending, err := ns.assignments.ListUnsent(ctx)
	if err != nil {
		ns.logger.Error("Failed to list pending notifications", gecho.Field("error", lib.MapPgError(err)))
		return 0, err
	}

	sent := 0
	for i := range pending {
		if err := ns.HandleAssignmentWritten(ctx, pending[i].Id); err != nil {
			ns.logger.Warn("Skipping failed notification",
				gecho.Field("error", err),
				gecho.Field("assignment_id", pending[i].Id),
			)
			continue
		}
		sent++
	}

	ns.logger.Info("Notification sweep finished",
		gecho.Field("pending", len(pending)),
		gecho.Field("sent", sent),
	)

	return sent, nil
}

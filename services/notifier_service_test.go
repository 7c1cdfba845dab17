package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumino_server/lib"
	"lumino_server/structs"
	"lumino_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	calls    int
	lastSent *structs.EmailPayload
	err      error
}

func (m *fakeMailer) Send(_ context.Context, payload *structs.EmailPayload) (string, error) {
	m.calls++
	m.lastSent = payload
	if m.err != nil {
		return "", m.err
	}
	return "msg-123", nil
}

func pendingAssignment() *tables.Assignment {
	return &tables.Assignment{
		Id:               uuid.New(),
		StudentEmail:     "joanne@example.com",
		StudentName:      "Joanne",
		GameTitle:        "Fraction Frenzy",
		LinkToken:        "tok-valid",
		Status:           tables.AssignmentStatusAssigned,
		UseEmailLinkAuth: true,
		CreatedAt:        time.Now(),
	}
}

func newTestNotifier(assignments AssignmentStore, mailer Mailer) *NotifierService {
	cfg := testConfig()
	logger := gecho.NewDefaultLogger()
	return newNotifierService(cfg, logger, assignments, newEmailService(logger, cfg, mailer))
}

func TestHandleAssignmentWrittenSendsAndMarks(t *testing.T) {
	assignment := pendingAssignment()
	store := newFakeAssignmentStore(assignment)
	mailer := &fakeMailer{}
	ns := newTestNotifier(store, mailer)

	require.NoError(t, ns.HandleAssignmentWritten(context.Background(), assignment.Id))

	assert.Equal(t, 1, mailer.calls)
	assert.True(t, assignment.EmailSent)

	require.NotNil(t, mailer.lastSent)
	assert.Equal(t, "joanne@example.com", mailer.lastSent.To[0].Email)
	assert.Equal(t, "New assignment: Fraction Frenzy", mailer.lastSent.Subject)
	assert.Contains(t, mailer.lastSent.Html, "https://play.lumino.test/play?token=tok-valid")
}

func TestHandleAssignmentWrittenSkipsAlreadySent(t *testing.T) {
	assignment := pendingAssignment()
	assignment.EmailSent = true
	mailer := &fakeMailer{}
	ns := newTestNotifier(newFakeAssignmentStore(assignment), mailer)

	require.NoError(t, ns.HandleAssignmentWritten(context.Background(), assignment.Id))
	assert.Zero(t, mailer.calls)
}

func TestHandleAssignmentWrittenSkipsOptedOut(t *testing.T) {
	assignment := pendingAssignment()
	assignment.UseEmailLinkAuth = false
	mailer := &fakeMailer{}
	ns := newTestNotifier(newFakeAssignmentStore(assignment), mailer)

	require.NoError(t, ns.HandleAssignmentWritten(context.Background(), assignment.Id))
	assert.Zero(t, mailer.calls)
	assert.False(t, assignment.EmailSent)
}

func TestHandleAssignmentWrittenUnknownAssignment(t *testing.T) {
	ns := newTestNotifier(newFakeAssignmentStore(), &fakeMailer{})

	err := ns.HandleAssignmentWritten(context.Background(), uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestHandleAssignmentWrittenInvalidRecipientStaysPending(t *testing.T) {
	assignment := pendingAssignment()
	assignment.StudentEmail = "not-an-email"
	mailer := &fakeMailer{}
	ns := newTestNotifier(newFakeAssignmentStore(assignment), mailer)

	err := ns.HandleAssignmentWritten(context.Background(), assignment.Id)
	assert.ErrorIs(t, err, lib.ErrInvalidPayload)
	assert.Zero(t, mailer.calls, "invalid payloads must not reach the provider")
	assert.False(t, assignment.EmailSent)
}

func TestHandleAssignmentWrittenProviderFailureStaysPending(t *testing.T) {
	assignment := pendingAssignment()
	mailer := &fakeMailer{err: errors.New("resend is down")}
	ns := newTestNotifier(newFakeAssignmentStore(assignment), mailer)

	err := ns.HandleAssignmentWritten(context.Background(), assignment.Id)
	assert.ErrorIs(t, err, lib.ErrProviderFailure)
	assert.False(t, assignment.EmailSent)
}

func TestNotifyPendingSweepsAndCounts(t *testing.T) {
	good := pendingAssignment()
	bad := pendingAssignment()
	bad.Id = uuid.New()
	bad.StudentEmail = "broken-address"
	alreadySent := pendingAssignment()
	alreadySent.Id = uuid.New()
	alreadySent.EmailSent = true

	mailer := &fakeMailer{}
	ns := newTestNotifier(newFakeAssignmentStore(good, bad, alreadySent), mailer)

	sent, err := ns.NotifyPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent, "one valid pending record")
	assert.Equal(t, 1, mailer.calls)
	assert.True(t, good.EmailSent)
	assert.False(t, bad.EmailSent, "broken record stays pending for the next sweep")
}

func TestNotifyPendingRetriesPreviouslyFailedRecord(t *testing.T) {
	assignment := pendingAssignment()
	mailer := &fakeMailer{err: errors.New("transient outage")}
	store := newFakeAssignmentStore(assignment)
	ns := newTestNotifier(store, mailer)

	sent, err := ns.NotifyPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	// Provider recovered, the same record gets picked up again.
	mailer.err = nil
	sent, err = ns.NotifyPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.True(t, assignment.EmailSent)
}

package services

import (
	"context"
	"testing"
	"time"

	"lumino_server/lib"
	"lumino_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the whole magic-link lifecycle across the notifier and the verifier:
// a freshly written assignment gets exactly one email, the emailed token
// grants exactly one session, and re-triggering the notifier afterwards is a
// no-op.
func TestAssignmentLinkLifecycle(t *testing.T) {
	ctx := context.Background()

	assignment := pendingAssignment()
	token := &tables.AssignmentToken{
		Token:        assignment.LinkToken,
		StudentEmail: assignment.StudentEmail,
		AssignmentId: assignment.Id,
		ExpiresAt:    time.Now().Add(72 * time.Hour),
		CreatedAt:    time.Now(),
	}

	assignments := newFakeAssignmentStore(assignment)
	tokens := newFakeTokenStore(token)
	users := newFakeUserStore()
	mailer := &fakeMailer{}

	notifier := newTestNotifier(assignments, mailer)
	verifier := newTestTokenService(tokens, assignments, users)

	// The write hook fires: the student gets one email with the link token.
	require.NoError(t, notifier.HandleAssignmentWritten(ctx, assignment.Id))
	assert.Equal(t, 1, mailer.calls)
	assert.True(t, assignment.EmailSent)
	assert.Contains(t, mailer.lastSent.Html, assignment.LinkToken)

	// The student clicks the link: the token is exchanged for a session.
	result, err := verifier.Verify(ctx, assignment.LinkToken)
	require.NoError(t, err)
	assert.Equal(t, assignment.Id, result.AssignmentId)
	assert.NotEmpty(t, result.SessionToken)

	// A replay of the same link is rejected.
	_, err = verifier.Verify(ctx, assignment.LinkToken)
	assert.ErrorIs(t, err, lib.ErrTokenUsed)

	// The session still authorizes access to the assignment's link token.
	link, err := verifier.AuthorizeAssignmentAccess(ctx, result.User.Email, assignment.Id)
	require.NoError(t, err)
	assert.Equal(t, assignment.LinkToken, link)

	// Re-triggering the notifier sends nothing, the record is already sent.
	require.NoError(t, notifier.HandleAssignmentWritten(ctx, assignment.Id))
	assert.Equal(t, 1, mailer.calls)

	// Neither does the sweep.
	sent, err := notifier.NotifyPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 1, mailer.calls)
}

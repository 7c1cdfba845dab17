package services

import (
	"context"
	"strings"
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

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:     "Lumino Learning",
			FrontendURL: "https://play.lumino.test",
		},
		Auth: &structs.AuthConfig{
			SessionTokenSecret: "test-secret-for-session-tokens",
			SessionTokenExpiry: time.Hour,
		},
		Email: &structs.EmailConfig{
			From:            "assignments@luminolearning.com",
			FromName:        "Lumino Learning",
			SupportEmail:    "support@luminolearning.com",
			LinkTokenExpiry: 72 * time.Hour,
		},
	}
}

type fakeTokenStore struct {
	tokens     map[string]*tables.AssignmentToken
	denyBurn   bool
	markCalls  int
	insertions int
}

func newFakeTokenStore(records ...*tables.AssignmentToken) *fakeTokenStore {
	s := &fakeTokenStore{tokens: map[string]*tables.AssignmentToken{}}
	for _, r := range records {
		s.tokens[r.Token] = r
	}
	return s
}

func (s *fakeTokenStore) FindByToken(_ context.Context, token string) (*tables.AssignmentToken, error) {
	return s.tokens[token], nil
}

func (s *fakeTokenStore) MarkUsed(_ context.Context, token string) (bool, error) {
	s.markCalls++
	if s.denyBurn {
		return false, nil
	}
	record, ok := s.tokens[token]
	if !ok || record.Used {
		return false, nil
	}
	record.Used = true
	return true, nil
}

func (s *fakeTokenStore) Insert(_ context.Context, record *tables.AssignmentToken) (*tables.AssignmentToken, error) {
	s.insertions++
	s.tokens[record.Token] = record
	return record, nil
}

type fakeAssignmentStore struct {
	assignments map[uuid.UUID]*tables.Assignment
}

func newFakeAssignmentStore(records ...*tables.Assignment) *fakeAssignmentStore {
	s := &fakeAssignmentStore{assignments: map[uuid.UUID]*tables.Assignment{}}
	for _, r := range records {
		s.assignments[r.Id] = r
	}
	return s
}

func (s *fakeAssignmentStore) FindByID(_ context.Context, id uuid.UUID) (*tables.Assignment, error) {
	return s.assignments[id], nil
}

func (s *fakeAssignmentStore) ListUnsent(_ context.Context) ([]tables.Assignment, error) {
	var out []tables.Assignment
	for _, a := range s.assignments {
		if !a.EmailSent && a.UseEmailLinkAuth {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) MarkEmailSent(_ context.Context, id uuid.UUID) (bool, error) {
	record, ok := s.assignments[id]
	if !ok || record.EmailSent {
		return false, nil
	}
	record.EmailSent = true
	return true, nil
}

func (s *fakeAssignmentStore) Insert(_ context.Context, record *tables.Assignment) (*tables.Assignment, error) {
	s.assignments[record.Id] = record
	return record, nil
}

type fakeUserStore struct {
	users          map[string]*tables.User
	lastLoginCalls int
}

func newFakeUserStore(records ...*tables.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*tables.User{}}
	for _, r := range records {
		s.users[strings.ToLower(r.Email)] = r
	}
	return s
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*tables.User, error) {
	return s.users[strings.ToLower(email)], nil
}

func (s *fakeUserStore) Insert(_ context.Context, record *tables.User) (*tables.User, error) {
	s.users[strings.ToLower(record.Email)] = record
	return record, nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, _ uuid.UUID) error {
	s.lastLoginCalls++
	return nil
}

func (s *fakeUserStore) UpdateRole(_ context.Context, id uuid.UUID, role string) (bool, error) {
	for _, u := range s.users {
		if u.Id == id {
			u.Role = role
			return true, nil
		}
	}
	return false, nil
}

func validToken(assignmentID uuid.UUID) *tables.AssignmentToken {
	return &tables.AssignmentToken{
		Token:        "tok-valid",
		StudentEmail: "joanne@example.com",
		AssignmentId: assignmentID,
		ExpiresAt:    time.Now().Add(time.Hour),
		CreatedAt:    time.Now(),
	}
}

func newTestTokenService(tokens TokenStore, assignments AssignmentStore, users UserStore) *TokenService {
	return newTokenService(testConfig(), gecho.NewDefaultLogger(), tokens, assignments, users)
}

func TestVerifyHappyPath(t *testing.T) {
	assignmentID := uuid.New()
	tokens := newFakeTokenStore(validToken(assignmentID))
	users := newFakeUserStore()
	ts := newTestTokenService(tokens, newFakeAssignmentStore(), users)

	result, err := ts.Verify(context.Background(), "tok-valid")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, assignmentID, result.AssignmentId)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	// Session claims carry the assignment scope
	claims, err := lib.ParseToken(result.SessionToken, testConfig().Auth.SessionTokenSecret)
	require.NoError(t, err)
	assert.Equal(t, assignmentID, claims.AssignmentId)

	// The token is burned
	assert.True(t, tokens.tokens["tok-valid"].Used)
	assert.Equal(t, 1, users.lastLoginCalls)
}

func TestVerifyCreatesVerifiedStudentOnFirstLogin(t *testing.T) {
	assignmentID := uuid.New()
	users := newFakeUserStore()
	ts := newTestTokenService(newFakeTokenStore(validToken(assignmentID)), newFakeAssignmentStore(), users)

	result, err := ts.Verify(context.Background(), "tok-valid")
	require.NoError(t, err)

	require.NotNil(t, result.User)
	assert.Equal(t, "joanne@example.com", result.User.Email)
	assert.Equal(t, tables.RoleStudent, result.User.Role)
	assert.True(t, result.User.EmailVerified, "magic link receipt proves mailbox ownership")
}

func TestVerifyReusesExistingIdentity(t *testing.T) {
	assignmentID := uuid.New()
	existing := &tables.User{
		Id:            uuid.New(),
		Email:         "joanne@example.com",
		Role:          tables.RoleTeacher,
		EmailVerified: true,
	}
	users := newFakeUserStore(existing)
	ts := newTestTokenService(newFakeTokenStore(validToken(assignmentID)), newFakeAssignmentStore(), users)

	result, err := ts.Verify(context.Background(), "tok-valid")
	require.NoError(t, err)

	assert.Equal(t, existing.Id, result.User.Id)
	assert.Equal(t, tables.RoleTeacher, result.User.Role)
}

func TestVerifySecondUseRejected(t *testing.T) {
	assignmentID := uuid.New()
	ts := newTestTokenService(newFakeTokenStore(validToken(assignmentID)), newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "tok-valid")
	require.NoError(t, err)

	_, err = ts.Verify(context.Background(), "tok-valid")
	assert.ErrorIs(t, err, lib.ErrTokenUsed)
}

func TestVerifyEmptyToken(t *testing.T) {
	ts := newTestTokenService(newFakeTokenStore(), newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "   ")
	assert.ErrorIs(t, err, lib.ErrInvalidArgument)
}

func TestVerifyUnknownToken(t *testing.T) {
	ts := newTestTokenService(newFakeTokenStore(), newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "tok-missing")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestVerifyExpiredToken(t *testing.T) {
	record := validToken(uuid.New())
	record.ExpiresAt = time.Now().Add(-time.Minute)
	ts := newTestTokenService(newFakeTokenStore(record), newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "tok-valid")
	assert.ErrorIs(t, err, lib.ErrExpiredToken)
}

func TestVerifyExpiredWinsOverUsed(t *testing.T) {
	record := validToken(uuid.New())
	record.ExpiresAt = time.Now().Add(-time.Minute)
	record.Used = true
	ts := newTestTokenService(newFakeTokenStore(record), newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "tok-valid")
	assert.ErrorIs(t, err, lib.ErrExpiredToken)
}

func TestVerifyConcurrentBurnLoses(t *testing.T) {
	tokens := newFakeTokenStore(validToken(uuid.New()))
	tokens.denyBurn = true // another request wins the conditional update
	ts := newTestTokenService(tokens, newFakeAssignmentStore(), newFakeUserStore())

	_, err := ts.Verify(context.Background(), "tok-valid")
	assert.ErrorIs(t, err, lib.ErrTokenUsed)
}

func TestPeek(t *testing.T) {
	assignmentID := uuid.New()
	record := validToken(assignmentID)
	ts := newTestTokenService(newFakeTokenStore(record), newFakeAssignmentStore(), newFakeUserStore())

	t.Run("resolves linkage without burning", func(t *testing.T) {
		result, err := ts.Peek(context.Background(), "tok-valid")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, assignmentID, result.AssignmentId)
		assert.Equal(t, "tok-valid", result.LinkToken)
		assert.False(t, record.Used)
	})

	t.Run("unknown token reports not found", func(t *testing.T) {
		result, err := ts.Peek(context.Background(), "tok-missing")
		require.NoError(t, err)
		assert.False(t, result.Found)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		_, err := ts.Peek(context.Background(), "")
		assert.ErrorIs(t, err, lib.ErrInvalidArgument)
	})
}

func TestAuthorizeAssignmentAccess(t *testing.T) {
	assignment := &tables.Assignment{
		Id:           uuid.New(),
		StudentEmail: "joanne@example.com",
		LinkToken:    "tok-valid",
	}
	ts := newTestTokenService(newFakeTokenStore(), newFakeAssignmentStore(assignment), newFakeUserStore())

	t.Run("owner gets the link token", func(t *testing.T) {
		link, err := ts.AuthorizeAssignmentAccess(context.Background(), "joanne@example.com", assignment.Id)
		require.NoError(t, err)
		assert.Equal(t, "tok-valid", link)
	})

	t.Run("email comparison is case-insensitive", func(t *testing.T) {
		link, err := ts.AuthorizeAssignmentAccess(context.Background(), "JOANNE@Example.COM", assignment.Id)
		require.NoError(t, err)
		assert.Equal(t, "tok-valid", link)
	})

	t.Run("other students are rejected", func(t *testing.T) {
		_, err := ts.AuthorizeAssignmentAccess(context.Background(), "intruder@example.com", assignment.Id)
		assert.ErrorIs(t, err, lib.ErrEmailMismatch)
	})

	t.Run("missing caller email fails closed", func(t *testing.T) {
		_, err := ts.AuthorizeAssignmentAccess(context.Background(), "  ", assignment.Id)
		assert.ErrorIs(t, err, lib.ErrInvalidArgument)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := ts.AuthorizeAssignmentAccess(context.Background(), "joanne@example.com", uuid.New())
		assert.ErrorIs(t, err, lib.ErrNotFound)
	})
}

package lib

import (
	"testing"
	"time"

	"lumino_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-session-tokens"

func testUser() *tables.User {
	return &tables.User{
		Id:            uuid.New(),
		Email:         "joanne@example.com",
		Role:          tables.RoleStudent,
		EmailVerified: true,
	}
}

func TestGenerateAndParseSessionToken(t *testing.T) {
	user := testUser()
	assignmentID := uuid.New()

	token, expiresAt, err := GenerateSessionToken(user, assignmentID, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, user.Id, claims.Sub)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, tables.RoleStudent, claims.Role)
	assert.Equal(t, assignmentID, claims.AssignmentId)
	assert.NotEqual(t, uuid.Nil, claims.Jti)
	assert.WithinDuration(t, expiresAt, claims.Exp, time.Second)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken(testUser(), uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateSessionToken(testUser(), uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestSessionTokensGetUniqueJti(t *testing.T) {
	user := testUser()
	assignmentID := uuid.New()

	first, _, err := GenerateSessionToken(user, assignmentID, testSecret, time.Hour)
	require.NoError(t, err)
	second, _, err := GenerateSessionToken(user, assignmentID, testSecret, time.Hour)
	require.NoError(t, err)

	firstClaims, err := ParseToken(first, testSecret)
	require.NoError(t, err)
	secondClaims, err := ParseToken(second, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.Jti, secondClaims.Jti)
}

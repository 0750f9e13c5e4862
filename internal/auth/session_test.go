package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfield-library/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Sam",
		Email: "sam@lib.edu",
		Role:  models.UserRoleStudent,
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	user := testUser()

	raw, err := m.IssueToken(user)
	require.NoError(t, err)

	sess, err := m.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, models.UserRoleStudent, sess.Role)
	assert.Equal(t, "Sam", sess.Name)
	assert.Equal(t, "sam@lib.edu", sess.Email)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewManager("secret-a", time.Hour).IssueToken(testUser())
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	raw, err := m.IssueToken(testUser())
	require.NoError(t, err)

	_, err = m.ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

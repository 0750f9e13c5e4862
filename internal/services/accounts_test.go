package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfield-library/internal/models"
)

func TestRegisterHashesPasswordAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Ada", "ada@lib.edu", models.UserRoleAdmin)

	user, err := env.svc.Register("Sam", "sam@lib.edu", "hunter2", models.UserRoleStudent)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", user.Password)

	welcomes := env.channel.bySubject("Welcome to Greenfield Library")
	require.Len(t, welcomes, 1)
	assert.Equal(t, []string{"sam@lib.edu"}, welcomes[0].Recipients)

	notices := env.channel.bySubject("New User Registration")
	require.Len(t, notices, 1)
	assert.Equal(t, []string{admin.Email}, notices[0].Recipients)
}

func TestRegisterDuplicateEmailRejectsWithoutMutation(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.svc.Register("Sam", "sam@lib.edu", "hunter2", models.UserRoleStudent)
	require.NoError(t, err)

	_, err = env.svc.Register("Impostor", "sam@lib.edu", "other", models.UserRoleAdmin)
	assert.ErrorIs(t, err, ErrEmailTaken)

	stored, err := env.store.GetByEmail("sam@lib.edu")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Sam", stored.Name)
	assert.Equal(t, models.UserRoleStudent, stored.Role)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Ada", "ada@lib.edu", models.UserRoleAdmin)
	_, err := env.svc.Register("Sam", "sam@lib.edu", "hunter2", models.UserRoleStudent)
	require.NoError(t, err)
	env.channel.reset()

	user, err := env.svc.Authenticate("sam@lib.edu", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Name)

	// Student logins alert the admin list.
	alerts := env.channel.bySubject("Student Login")
	require.Len(t, alerts, 1)
	assert.Equal(t, []string{admin.Email}, alerts[0].Recipients)

	_, err = env.svc.Authenticate("sam@lib.edu", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Authenticate("nobody@lib.edu", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateAdminDoesNotAlert(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Register("Ada", "ada@lib.edu", "secret", models.UserRoleAdmin)
	require.NoError(t, err)
	env.channel.reset()

	_, err = env.svc.Authenticate("ada@lib.edu", "secret")
	require.NoError(t, err)
	assert.Empty(t, env.channel.bySubject("Student Login"))
}

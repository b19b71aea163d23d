package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

func newUserService() (*UserService, *fakeUsers) {
	users := newFakeUsers()
	svc := NewUserService(users, testLogger())
	svc.clock = fixedClock
	svc.cost = bcrypt.MinCost
	return svc, users
}

func register(t *testing.T, svc *UserService, username string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    " " + username + "@Example.com ",
		Password: "correct horse",
		FullName: "Test " + username,
		Gender:   models.GenderOther,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	u := register(t, svc, "alice")

	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.False(t, u.IsAdmin)

	got, err := svc.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestRegisterRejects(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	register(t, svc, "alice")

	cases := map[string]RegisterInput{
		"duplicate username": {Username: "alice", Email: "other@example.com", Password: "12345678"},
		"duplicate email":    {Username: "other", Email: "alice@example.com", Password: "12345678"},
	}
	for name, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindConflict), name)
	}

	invalid := map[string]RegisterInput{
		"short username": {Username: "al", Email: "al@example.com", Password: "12345678"},
		"bad email":      {Username: "carol", Email: "carol", Password: "12345678"},
		"short password": {Username: "carol", Email: "carol@example.com", Password: "short"},
		"bad gender":     {Username: "carol", Email: "carol@example.com", Password: "12345678", Gender: "Robot"},
	}
	for name, in := range invalid {
		_, err := svc.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), name)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bobby")

	name := "Alice Cooper"
	got, err := svc.UpdateProfile(ctx, alice.Actor(), alice.ID, ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.FullName)

	taken := "bobby"
	_, err = svc.UpdateProfile(ctx, alice.Actor(), alice.ID, ProfileUpdate{Username: &taken})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.UpdateProfile(ctx, bob.Actor(), alice.ID, ProfileUpdate{FullName: &name})
	assert.True(t, apperr.Is(err, apperr.KindPermission))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	alice := register(t, svc, "alice")

	err := svc.ChangePassword(ctx, alice.Actor(), "wrong one", "new password")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, alice.Actor(), "correct horse", "new password"))
	_, err = svc.Authenticate(ctx, alice.Email, "new password")
	assert.NoError(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	svc, users := newUserService()
	ctx := context.Background()
	admin := users.add("root", "", true)
	alice := register(t, svc, "alice")

	got, err := svc.SetAdmin(ctx, admin.Actor(), alice.ID, nil)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = svc.SetAdmin(ctx, admin.Actor(), admin.ID, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = svc.Delete(ctx, admin.Actor(), admin.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	page, err := svc.List(ctx, admin.Actor(), models.Window{}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)

	require.NoError(t, svc.Delete(ctx, admin.Actor(), alice.ID))
	_, err = svc.Get(ctx, alice.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.List(ctx, models.Actor{UserID: models.UserRefOf(alice.ID)}, models.Window{}, "")
	assert.True(t, apperr.Is(err, apperr.KindPermission))
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yerlan-k/league-system/models"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("first account becomes admin", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), discardLogger())

		user, err := svc.Register(ctx, models.Credentials{Email: "Admin@League.KZ", Password: "correct-horse"})
		require.NoError(t, err)
		assert.True(t, user.Admin)
		assert.True(t, user.Active)
		assert.Equal(t, "admin@league.kz", user.Email)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
	})

	t.Run("later accounts are not admin", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1, Email: "admin@league.kz", Admin: true, Active: true})
		svc := NewAuthService(repo, discardLogger())

		user, err := svc.Register(ctx, models.Credentials{Email: "staff@league.kz", Password: "correct-horse"})
		require.NoError(t, err)
		assert.False(t, user.Admin)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), discardLogger())

		_, err := svc.Register(ctx, models.Credentials{Email: "a@b.kz", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), discardLogger())

		_, err := svc.Register(ctx, models.Credentials{Email: "not-an-email", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), discardLogger())

		_, err := svc.Register(ctx, models.Credentials{Email: "a@b.kz", Password: "correct-horse"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, models.Credentials{Email: "a@b.kz", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: 1, Email: "admin@league.kz", PasswordHash: string(hash), Admin: true, Active: true}

	t.Run("valid credentials", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(account), discardLogger())

		user, err := svc.Login(ctx, models.Credentials{Email: "admin@league.kz", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(account), discardLogger())

		_, err := svc.Login(ctx, models.Credentials{Email: "admin@league.kz", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(account), discardLogger())

		_, err := svc.Login(ctx, models.Credentials{Email: "nobody@league.kz", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		disabled := *account
		disabled.Active = false
		svc := NewAuthService(newFakeUserRepo(&disabled), discardLogger())

		_, err := svc.Login(ctx, models.Credentials{Email: "admin@league.kz", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

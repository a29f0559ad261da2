package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ayse@test.local", "gizli-parola", "Ayşe")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Ayşe", user.DisplayName)
	assert.NotEqual(t, "gizli-parola", user.PasswordHash, "password must be hashed")

	got, err := svc.Login(ctx, "ayse@test.local", "gizli-parola")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@test.local", "parola1", "Bir")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@test.local", "parola2", "İki")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ali@test.local", "dogru-parola", "Ali")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ali@test.local", "yanlis-parola")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "yok@test.local", "dogru-parola")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

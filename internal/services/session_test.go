package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundtrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, "test-secret", 24*time.Hour, clockAt(testNoon))
	ctx := context.Background()
	user := createTestUser(t, db, "session@test.local")

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestSessionExpires(t *testing.T) {
	db := newTestDB(t)
	current := testNoon
	svc := NewSessionService(db, "test-secret", time.Hour, func() time.Time { return current })
	ctx := context.Background()
	user := createTestUser(t, db, "expire@test.local")

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionDestroy(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, "test-secret", 24*time.Hour, clockAt(testNoon))
	ctx := context.Background()
	user := createTestUser(t, db, "logout@test.local")

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, token))
	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// destroying again is a no-op
	assert.NoError(t, svc.Destroy(ctx, token))
}

func TestSessionRejectsForgedTokens(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db, "test-secret", 24*time.Hour, clockAt(testNoon))
	ctx := context.Background()
	user := createTestUser(t, db, "forge@test.local")

	_, err := svc.Validate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)

	// a token signed with a different secret must not resolve
	other := NewSessionService(db, "other-secret", 24*time.Hour, clockAt(testNoon))
	token, err := other.Create(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

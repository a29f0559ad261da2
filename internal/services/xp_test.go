package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "Acemi"},
		{299, "Acemi"},
		{300, "Öğrenci"},
		{749, "Öğrenci"},
		{750, "Deneyimli"},
		{1999, "Deneyimli"},
		{2000, "Uzman"},
		{4999, "Uzman"},
		{5000, "Expert"},
		{123456, "Expert"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestAddXPRecomputesLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, clockAt(testNoon), logger.NewNop())
	ctx := context.Background()
	user := createTestUser(t, db, "xp@test.local")

	require.NoError(t, svc.AddXP(ctx, user.ID, 295))
	require.NoError(t, svc.AddXP(ctx, user.ID, 10))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 305, got.XP)
	assert.Equal(t, "Öğrenci", got.Level, "level follows the post-update total")
}

func TestAddXPIgnoresNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, clockAt(testNoon), logger.NewNop())
	ctx := context.Background()
	user := createTestUser(t, db, "xp@test.local")

	require.NoError(t, svc.AddXP(ctx, user.ID, 0))
	require.NoError(t, svc.AddXP(ctx, user.ID, -50))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 0, got.XP)
}

func TestAddFactReadXPOncePerFact(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(db, clockAt(testNoon), logger.NewNop())
	ctx := context.Background()
	user := createTestUser(t, db, "reader@test.local")
	facts := seedTestFacts(t, db, testNoon, 2)

	earned, err := svc.AddFactReadXP(ctx, user.ID, facts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, XPFactRead, earned)

	earned, err = svc.AddFactReadXP(ctx, user.ID, facts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, earned, "second read of the same fact grants nothing")

	earned, err = svc.AddFactReadXP(ctx, user.ID, facts[1].ID)
	require.NoError(t, err)
	assert.Equal(t, XPFactRead, earned, "a different fact is a fresh grant")

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 2*XPFactRead, got.XP)
}

func TestAddDailyLoginXPOncePerDay(t *testing.T) {
	db := newTestDB(t)
	current := testNoon
	svc := NewXPService(db, func() time.Time { return current }, logger.NewNop())
	ctx := context.Background()
	user := createTestUser(t, db, "daily@test.local")

	earned, err := svc.AddDailyLoginXP(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, XPDailyLogin, earned)

	current = current.Add(3 * time.Hour)
	earned, err = svc.AddDailyLoginXP(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, earned, "same calendar day, no second bonus")

	current = current.AddDate(0, 0, 1)
	earned, err = svc.AddDailyLoginXP(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, XPDailyLogin, earned, "next day starts a new grant")
}

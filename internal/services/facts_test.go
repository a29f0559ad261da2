package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

// stubFactGen fails the test on any call; used where generation must not run.
type stubFactGen struct{ t *testing.T }

func (g *stubFactGen) GenerateFactForCategory(context.Context, string, []string) (string, error) {
	g.t.Fatal("unexpected GenerateFactForCategory call")
	return "", nil
}

func (g *stubFactGen) Embed(context.Context, string) ([]float32, error) {
	g.t.Fatal("unexpected Embed call")
	return nil, nil
}

func (g *stubFactGen) GenerateFactImage(context.Context, string, string) (string, error) {
	g.t.Fatal("unexpected GenerateFactImage call")
	return "", nil
}

func newTestFactService(t *testing.T, db *gorm.DB, gen FactGenerator) *FactService {
	t.Helper()
	cfg := &config.Config{
		SimThreshold:   0.35,
		MaxGenRetries:  5,
		LookbackDays:   30,
		AvoidListLimit: 80,
	}
	return NewFactService(db, gen, cfg, clockAt(testNoon), logger.NewNop())
}

func TestGenerateSkipsCompletedDay(t *testing.T) {
	db := newTestDB(t)
	svc := newTestFactService(t, db, &stubFactGen{t: t})
	seedTestFacts(t, db, testNoon, 6)

	res, err := svc.GenerateAndStoreToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "skipped", res.Status)
	assert.Equal(t, "today_already_generated", res.Reason)
}

func TestActiveFact(t *testing.T) {
	db := newTestDB(t)
	seedTestFacts(t, db, testNoon, 6)

	// noon falls in the third slot, 12:00-14:00
	svc := newTestFactService(t, db, &stubFactGen{t: t})
	fact, err := svc.ActiveFact(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fact)
	assert.Equal(t, "Sanat", fact.Category)
}

func TestActiveFactOutsideSlots(t *testing.T) {
	db := newTestDB(t)
	seedTestFacts(t, db, testNoon, 6)

	cfg := &config.Config{SimThreshold: 0.35, MaxGenRetries: 5, LookbackDays: 30, AvoidListLimit: 80}
	evening := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	svc := NewFactService(db, &stubFactGen{t: t}, cfg, clockAt(evening), logger.NewNop())

	fact, err := svc.ActiveFact(context.Background())
	require.NoError(t, err)
	assert.Nil(t, fact, "after 20:00 no slot is live")
}

func TestFactsForDay(t *testing.T) {
	db := newTestDB(t)
	svc := newTestFactService(t, db, &stubFactGen{t: t})
	seedTestFacts(t, db, testNoon, 6)
	seedTestFacts(t, db, testNoon.AddDate(0, 0, -1), 6)

	facts, err := svc.FactsForDay(context.Background(), testNoon)
	require.NoError(t, err)
	require.Len(t, facts, 6, "only the requested day's facts")

	for i, f := range facts {
		assert.Equal(t, visibility.Categories[i], f.Category, "slot order preserved")
		assert.Equal(t, testNoon.Day(), f.VisibleFrom.Day())
	}
}

func TestSameTextExistsToday(t *testing.T) {
	db := newTestDB(t)
	svc := newTestFactService(t, db, &stubFactGen{t: t})
	seedTestFacts(t, db, testNoon, 1)
	ctx := context.Background()

	dup, err := svc.sameTextExistsToday(ctx, "  test BİLGİSİ tarih ")
	require.NoError(t, err)
	assert.True(t, dup, "case and spacing variants count as the same text")

	dup, err = svc.sameTextExistsToday(ctx, "bambaşka bir bilgi")
	require.NoError(t, err)
	assert.False(t, dup)
}

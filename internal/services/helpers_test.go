package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gkapp.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Fact{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.ReadLog{},
		&models.LoginLog{},
		&models.Session{},
	))
	return db
}

func clockAt(instant time.Time) visibility.Clock {
	return func() time.Time { return instant }
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "Test Kullanıcı",
		Level:        "Acemi",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// noon on a fixed day, the reference instant for day-scoped tests
var testNoon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func seedTestFacts(t *testing.T, db *gorm.DB, day time.Time, n int) []models.Fact {
	t.Helper()
	slots := visibility.DaySlots(day)
	require.LessOrEqual(t, n, len(slots))

	facts := make([]models.Fact, n)
	for i := 0; i < n; i++ {
		facts[i] = models.Fact{
			Content:      "Test bilgisi " + slots[i].Category,
			Category:     slots[i].Category,
			VisibleFrom:  slots[i].Start,
			VisibleUntil: slots[i].End,
			// a zero-value vector serializes to "[]", which Scan cannot
			// parse back under sqlite; seed a valid embedding instead
			Embedding: pgvector.NewVector(make([]float32, 1536)),
		}
		require.NoError(t, db.Create(&facts[i]).Error)
	}
	return facts
}

package database

import (
	"fmt"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the idempotent XP grants rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	// The facts table carries an embedding column; the extension has to
	// exist before AutoMigrate sees the vector(1536) type.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("creating pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Fact{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.ReadLog{},
		&models.LoginLog{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("auto-migrating: %w", err)
	}
	return nil
}

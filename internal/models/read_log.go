package models

import "time"

// ReadLog is an append-only idempotency guard: a row means the fact-read
// XP for this (user, fact) pair has already been granted.
type ReadLog struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_user_fact" json:"kullanici_id"`
	FactID uint      `gorm:"not null;uniqueIndex:idx_user_fact" json:"bilgi_id"`
	ReadAt time.Time `json:"okuma_zamani"`
}

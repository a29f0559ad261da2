package models

import "time"

// LoginLog guards the daily login XP: one row per (user, calendar date).
type LoginLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_day" json:"kullanici_id"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_user_day" json:"tarih"`
	CreatedAt time.Time `json:"created_at"`
}

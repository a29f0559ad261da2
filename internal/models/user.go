package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:100;not null" json:"display_name"`
	XP           int       `gorm:"not null;default:0" json:"xp"`
	Level        string    `gorm:"size:20;not null;default:'Acemi'" json:"level"`
	Status       string    `gorm:"size:20;not null;default:'aktif'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

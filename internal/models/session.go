package models

import "time"

// Session is a server-side login session. The browser only holds a signed
// token referencing the row; deleting the row logs the user out everywhere.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

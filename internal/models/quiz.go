package models

import "time"

// Quiz is the single daily quiz. One row per calendar date, created lazily
// by the quiz builder. StartTime/EndTime are "HH:MM" wall-clock bounds.
type Quiz struct {
	ID        uint       `gorm:"primaryKey" json:"quiz_id"`
	Date      string     `gorm:"size:10;uniqueIndex;not null" json:"tarih"`
	StartTime string     `gorm:"size:5;not null" json:"baslangic_saat"`
	EndTime   string     `gorm:"size:5;not null" json:"bitis_saat"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"sorular,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

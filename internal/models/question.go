package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question is a four-option multiple-choice item derived from one fact.
// Options are stored pre-shuffled; CorrectIndex points at the shuffled
// position of the correct option.
type Question struct {
	ID           uint                        `gorm:"primaryKey" json:"soru_id"`
	QuizID       uint                        `gorm:"not null;uniqueIndex:idx_quiz_fact" json:"quiz_id"`
	FactID       uint                        `gorm:"not null;uniqueIndex:idx_quiz_fact" json:"bilgi_id"`
	Text         string                      `gorm:"type:text;not null" json:"soru"`
	Options      datatypes.JSONSlice[string] `gorm:"not null" json:"secenekler"`
	CorrectIndex int                         `gorm:"not null" json:"-"`
	CreatedAt    time.Time                   `json:"olusturulma_tarihi"`
}

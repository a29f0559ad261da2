package models

import "time"

// Answer records one user's submission for one question. The unique index
// makes re-submission impossible at the store level, which is what the
// once-only XP grant relies on under concurrent requests.
type Answer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_question" json:"kullanici_id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_user_question" json:"soru_id"`
	ChosenIndex int       `gorm:"not null" json:"secilen_index"`
	IsCorrect   bool      `gorm:"not null" json:"dogru_mu"`
	AnsweredAt  time.Time `json:"cevaplama_tarihi"`
}

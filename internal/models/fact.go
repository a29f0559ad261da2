package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Fact is one daily trivia item. Each fact occupies a fixed two-hour
// visibility slot between 08:00 and 20:00 and is immutable after creation.
type Fact struct {
	ID           uint            `gorm:"primaryKey" json:"bilgi_id"`
	Content      string          `gorm:"type:text;not null" json:"icerik"`
	Embedding    pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	ImageURL     *string         `gorm:"type:text" json:"image_url,omitempty"`
	Category     string          `gorm:"size:50;not null;index" json:"kategori"`
	VisibleFrom  time.Time       `gorm:"not null;index" json:"gorunur_baslangic"`
	VisibleUntil time.Time       `gorm:"not null" json:"gorunur_bitis"`
	CreatedAt    time.Time       `json:"olusturulma_tarihi"`
}

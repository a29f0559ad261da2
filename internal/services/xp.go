package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

// XP rewards. Each idempotent grant is backed by a unique index so a
// concurrent duplicate request cannot double-award.
const (
	XPFactRead   = 2
	XPDailyLogin = 5
	XPPerCorrect = 5
)

// LevelForXP maps cumulative XP to the fixed tier names.
func LevelForXP(xp int) string {
	switch {
	case xp >= 5000:
		return "Expert"
	case xp >= 2000:
		return "Uzman"
	case xp >= 750:
		return "Deneyimli"
	case xp >= 300:
		return "Öğrenci"
	default:
		return "Acemi"
	}
}

// levelCaseSQL recomputes the level from the post-update XP inside the
// same UPDATE, keeping xp and level consistent without a read-modify-write.
const levelCaseSQL = `CASE
	WHEN xp + ? >= 5000 THEN 'Expert'
	WHEN xp + ? >= 2000 THEN 'Uzman'
	WHEN xp + ? >= 750  THEN 'Deneyimli'
	WHEN xp + ? >= 300  THEN 'Öğrenci'
	ELSE 'Acemi'
END`

type XPService struct {
	db  *gorm.DB
	now visibility.Clock
	log *logger.Logger
}

func NewXPService(db *gorm.DB, now visibility.Clock, log *logger.Logger) *XPService {
	return &XPService{db: db, now: now, log: log}
}

// AddXP adds a clamped non-negative amount to the user's cumulative XP and
// recomputes the level in one atomic update.
func (s *XPService) AddXP(ctx context.Context, userID uint, amount int) error {
	if userID == 0 || amount <= 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"xp":    gorm.Expr("xp + ?", amount),
			"level": gorm.Expr(levelCaseSQL, amount, amount, amount, amount),
		}).Error
}

// AddFactReadXP awards the fact-read bonus the first time a user reads a
// given fact. Returns the XP earned, 0 if it was granted before.
func (s *XPService) AddFactReadXP(ctx context.Context, userID, factID uint) (int, error) {
	if userID == 0 || factID == 0 {
		return 0, nil
	}

	entry := models.ReadLog{UserID: userID, FactID: factID, ReadAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, nil
		}
		return 0, err
	}

	if err := s.AddXP(ctx, userID, XPFactRead); err != nil {
		return 0, err
	}
	return XPFactRead, nil
}

// AddDailyLoginXP awards the login bonus on the first login of the
// calendar day. Returns the XP earned, 0 on later logins the same day.
func (s *XPService) AddDailyLoginXP(ctx context.Context, userID uint) (int, error) {
	if userID == 0 {
		return 0, nil
	}

	entry := models.LoginLog{UserID: userID, Day: s.now().Format("2006-01-02")}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, nil
		}
		return 0, err
	}

	if err := s.AddXP(ctx, userID, XPDailyLogin); err != nil {
		return 0, err
	}
	return XPDailyLogin, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/ai"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

const (
	leaderboardLimit    = 20
	leaderboardCacheKey = "gkapp:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

const noStatsComment = "Henüz yeterli istatistiğin yok. Birkaç gün üst üste quiz çözdükten sonra daha anlamlı yorumlar yapabilirim."

// CommentGenerator is the slice of the AI client the stats service needs.
type CommentGenerator interface {
	StatsComments(ctx context.Context, payloadJSON string) (overall, today string, err error)
}

type CategoryStat struct {
	Category string `json:"kategori"`
	Correct  int    `json:"dogru"`
	Wrong    int    `json:"yanlis"`
}

type DayResult struct {
	Date          string `json:"tarih"`
	QuestionCount int    `json:"soru_sayisi"`
	CorrectCount  int    `json:"dogru_sayisi"`
}

type UserStats struct {
	UserID         uint           `json:"kullaniciId"`
	DisplayName    string         `json:"kullaniciAdi"`
	XP             int            `json:"xp"`
	Level          string         `json:"seviye"`
	TotalQuestions int            `json:"toplamSoru"`
	TotalCorrect   int            `json:"toplamDogru"`
	TotalWrong     int            `json:"toplamYanlis"`
	Categories     []CategoryStat `json:"kategoriler"`
	Days           []DayResult    `json:"quizler"`
}

type StatsComments struct {
	OverallComment string `json:"overallComment"`
	TodayComment   string `json:"todayComment"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"sira"`
	UserID      uint   `json:"kullaniciId"`
	DisplayName string `json:"kullaniciAdi"`
	XP          int    `json:"xp"`
	Level       string `json:"seviye"`
}

// StatsService aggregates per-user quiz statistics and the leaderboard.
// Both the AI commentary and the Redis cache are optional enrichments;
// either may be nil and the service degrades to plain queries.
type StatsService struct {
	db    *gorm.DB
	ai    CommentGenerator
	cache *redis.Client
	now   visibility.Clock
	log   *logger.Logger
}

func NewStatsService(db *gorm.DB, ai CommentGenerator, cache *redis.Client, now visibility.Clock, log *logger.Logger) *StatsService {
	return &StatsService{db: db, ai: ai, cache: cache, now: now, log: log}
}

// UserStats returns the user's aggregate quiz performance. All six fixed
// categories appear even when the user never answered in one.
func (s *StatsService) UserStats(ctx context.Context, userID uint) (*UserStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	stats := &UserStats{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		XP:          user.XP,
		Level:       user.Level,
	}

	var catRows []CategoryStat
	err := s.db.WithContext(ctx).Raw(`
		SELECT f.category AS category,
		       SUM(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct,
		       SUM(CASE WHEN a.is_correct THEN 0 ELSE 1 END) AS wrong
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		JOIN facts f ON f.id = q.fact_id
		WHERE a.user_id = ?
		GROUP BY f.category`, userID).Scan(&catRows).Error
	if err != nil {
		return nil, err
	}
	stats.Categories = fillFixedCategories(catRows)

	row := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN a.is_correct THEN 1 ELSE 0 END), 0) AS correct
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.user_id = ?`, userID).Row()
	var total, correct int
	if err := row.Scan(&total, &correct); err != nil {
		return nil, err
	}
	stats.TotalQuestions = total
	stats.TotalCorrect = correct
	stats.TotalWrong = total - correct

	err = s.db.WithContext(ctx).Raw(`
		SELECT z.date AS date,
		       COUNT(*) AS question_count,
		       SUM(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_count
		FROM quizzes z
		JOIN questions q ON q.quiz_id = z.id
		JOIN answers a ON a.question_id = q.id AND a.user_id = ?
		GROUP BY z.date
		ORDER BY z.date DESC
		LIMIT 30`, userID).Scan(&stats.Days).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Comments asks the AI for motivational remarks about the user's stats.
// Failures degrade to a canned message; they never surface to the caller.
func (s *StatsService) Comments(ctx context.Context, userID uint) (*StatsComments, error) {
	stats, err := s.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil || stats.TotalQuestions == 0 || s.ai == nil {
		return &StatsComments{OverallComment: noStatsComment}, nil
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, err
	}
	overall, today, err := s.ai.StatsComments(ctx, string(payload))
	if err != nil {
		s.log.Warn("stats commentary failed", "user_id", userID, "err", err)
		return &StatsComments{OverallComment: noStatsComment}, nil
	}
	return &StatsComments{OverallComment: overall, TodayComment: today}, nil
}

// Leaderboard returns the top users by XP, ties broken by ascending user
// id, ranks starting at 1. Served from a short-lived Redis cache when one
// is configured.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var cached []LeaderboardEntry
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("xp DESC, id ASC").
		Limit(leaderboardLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			XP:          u.XP,
			Level:       u.Level,
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
				s.log.Warn("leaderboard cache write failed", "err", err)
			}
		}
	}
	return entries, nil
}

// fillFixedCategories zero-fills the six fixed categories and drops any
// stray category value that is not one of them.
func fillFixedCategories(rows []CategoryStat) []CategoryStat {
	byName := make(map[string]CategoryStat, len(rows))
	for _, r := range rows {
		byName[r.Category] = r
	}
	out := make([]CategoryStat, len(visibility.Categories))
	for i, cat := range visibility.Categories {
		if r, ok := byName[cat]; ok {
			out[i] = r
		} else {
			out[i] = CategoryStat{Category: cat}
		}
	}
	return out
}

var _ CommentGenerator = (*ai.Client)(nil)

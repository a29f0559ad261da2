package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/ai"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

// FactGenerator is the slice of the AI client the fact service needs.
type FactGenerator interface {
	GenerateFactForCategory(ctx context.Context, category string, avoid []string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	GenerateFactImage(ctx context.Context, factText, category string) (string, error)
}

// GenerationResult reports one generateAndStoreToday run.
type GenerationResult struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	InsertedCount int    `json:"insertedCount,omitempty"`
	IDs           []uint `json:"ids,omitempty"`
}

type FactService struct {
	db  *gorm.DB
	gen FactGenerator
	now visibility.Clock
	log *logger.Logger

	simThreshold float64
	maxRetries   int
	lookbackDays int
	avoidLimit   int
	imageEnabled bool
}

func NewFactService(db *gorm.DB, gen FactGenerator, cfg *config.Config, now visibility.Clock, log *logger.Logger) *FactService {
	return &FactService{
		db:           db,
		gen:          gen,
		now:          now,
		log:          log,
		simThreshold: cfg.SimThreshold,
		maxRetries:   cfg.MaxGenRetries,
		lookbackDays: cfg.LookbackDays,
		avoidLimit:   cfg.AvoidListLimit,
		imageEnabled: cfg.ImageGenEnabled,
	}
}

// GenerateAndStoreToday fills today's six fact slots, one category each.
// The cursor is recomputed from the store: generation resumes at the slot
// after the last inserted fact, so a crashed or failed run continues
// instead of duplicating earlier slots.
func (s *FactService) GenerateAndStoreToday(ctx context.Context) (*GenerationResult, error) {
	today := s.now()
	slots := visibility.DaySlots(today)

	existing, err := s.countFactsForDay(ctx, today)
	if err != nil {
		return nil, err
	}
	if existing >= len(slots) {
		return &GenerationResult{Status: "skipped", Reason: "today_already_generated"}, nil
	}

	avoid, err := s.recentTopics(ctx)
	if err != nil {
		return nil, err
	}

	var inserted []uint
	for i := existing; i < len(slots); i++ {
		id, err := s.fillSlot(ctx, slots[i], avoid)
		if err != nil {
			// Earlier slots stay in place; the next invocation resumes here.
			return nil, fmt.Errorf("slot %d (%s): %w", i, slots[i].Category, err)
		}
		inserted = append(inserted, id)
	}

	return &GenerationResult{
		Status:        "ok",
		InsertedCount: len(inserted),
		IDs:           inserted,
	}, nil
}

// fillSlot generates, deduplicates and stores one fact. Candidates are
// rejected when empty, textually equal to another fact of the day, or
// semantically too close to a recent fact; each rejection retries up to
// the ceiling. A candidate that is merely too similar on the final try is
// accepted rather than leaving the slot empty.
func (s *FactService) fillSlot(ctx context.Context, slot visibility.Slot, avoid []string) (uint, error) {
	for tries := 1; ; tries++ {
		text, err := s.gen.GenerateFactForCategory(ctx, slot.Category, avoid)
		if err != nil {
			if tries >= s.maxRetries {
				return 0, err
			}
			s.log.Warn("fact generation failed, retrying", "category", slot.Category, "try", tries, "err", err)
			continue
		}
		if text == "" {
			if tries >= s.maxRetries {
				return 0, errors.New("generator kept returning empty text")
			}
			continue
		}

		dup, err := s.sameTextExistsToday(ctx, text)
		if err != nil {
			return 0, err
		}
		if dup {
			if tries >= s.maxRetries {
				return 0, errors.New("could not avoid textual duplicate")
			}
			continue
		}

		vec, err := s.gen.Embed(ctx, text)
		if err != nil {
			return 0, err
		}

		dist, found, err := s.nearestDistance(ctx, vec)
		if err != nil {
			return 0, err
		}
		if found && dist <= s.simThreshold && tries < s.maxRetries {
			s.log.Info("candidate too similar, retrying",
				"category", slot.Category, "distance", dist, "try", tries)
			continue
		}

		var imageURL *string
		if s.imageEnabled {
			if url, err := s.gen.GenerateFactImage(ctx, text, slot.Category); err != nil {
				// Best-effort enrichment: the fact is stored without an image.
				s.log.Warn("image generation failed", "category", slot.Category, "err", err)
			} else if url != "" {
				imageURL = &url
			}
		}

		fact := models.Fact{
			Content:      text,
			Embedding:    pgvector.NewVector(vec),
			ImageURL:     imageURL,
			Category:     slot.Category,
			VisibleFrom:  slot.Start,
			VisibleUntil: slot.End,
		}
		if err := s.db.WithContext(ctx).Create(&fact).Error; err != nil {
			return 0, fmt.Errorf("storing fact: %w", err)
		}
		s.log.Info("fact stored", "id", fact.ID, "category", slot.Category, "tries", tries)
		return fact.ID, nil
	}
}

// ActiveFact returns the single fact whose visibility interval contains
// now, or nil when none does (e.g. outside 08:00-20:00).
func (s *FactService) ActiveFact(ctx context.Context) (*models.Fact, error) {
	now := s.now()
	var fact models.Fact
	err := s.db.WithContext(ctx).
		Where("visible_from <= ? AND visible_until > ?", now, now).
		Order("visible_from DESC").
		First(&fact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// FactsForDay lists the facts of the given calendar day in slot order.
func (s *FactService) FactsForDay(ctx context.Context, day time.Time) ([]models.Fact, error) {
	start, end := dayBounds(day)
	var facts []models.Fact
	err := s.db.WithContext(ctx).
		Where("visible_from >= ? AND visible_from < ?", start, end).
		Order("visible_from ASC").
		Find(&facts).Error
	return facts, err
}

func (s *FactService) countFactsForDay(ctx context.Context, day time.Time) (int, error) {
	start, end := dayBounds(day)
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Fact{}).
		Where("visible_from >= ? AND visible_from < ?", start, end).
		Count(&count).Error
	return int(count), err
}

// sameTextExistsToday compares the candidate against today's facts with
// case and whitespace folded away.
func (s *FactService) sameTextExistsToday(ctx context.Context, text string) (bool, error) {
	facts, err := s.FactsForDay(ctx, s.now())
	if err != nil {
		return false, err
	}
	want := NormalizeContent(text)
	for _, f := range facts {
		if NormalizeContent(f.Content) == want {
			return true, nil
		}
	}
	return false, nil
}

// nearestDistance returns the cosine distance to the closest fact of the
// lookback window. found is false when the window holds no facts.
func (s *FactService) nearestDistance(ctx context.Context, vec []float32) (float64, bool, error) {
	cutoff := s.now().AddDate(0, 0, -s.lookbackDays)
	v := pgvector.NewVector(vec)

	var dist float64
	row := s.db.WithContext(ctx).Raw(`
		SELECT embedding <=> ? AS dist
		FROM facts
		WHERE embedding IS NOT NULL AND visible_from >= ?
		ORDER BY embedding <=> ?
		LIMIT 1`, v, cutoff, v).Row()
	if err := row.Scan(&dist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return dist, true, nil
}

// recentTopics builds the avoidance list from the lookback window: the
// first ten words of each fact's first sentence, deduplicated.
func (s *FactService) recentTopics(ctx context.Context) ([]string, error) {
	cutoff := s.now().AddDate(0, 0, -s.lookbackDays)
	var contents []string
	err := s.db.WithContext(ctx).Model(&models.Fact{}).
		Where("visible_from >= ?", cutoff).
		Order("visible_from DESC").
		Limit(300).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, err
	}
	return TopicExcerpts(contents, s.avoidLimit), nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

var _ FactGenerator = (*ai.Client)(nil)

// Package jobs runs the daily content pipeline: facts first, then the
// quiz derived from them.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

type ContentGenerator interface {
	GenerateAndStoreToday(ctx context.Context) (*services.GenerationResult, error)
}

type QuizBuilder interface {
	GenerateQuestionsForToday(ctx context.Context) (*services.QuizGenerationResult, error)
}

// Scheduler owns the cron trigger and the boot-time catch-up run. It is
// an explicit object with a lifecycle instead of package-level state, and
// takes an injected clock so the window checks are testable.
type Scheduler struct {
	cron    *cron.Cron
	facts   ContentGenerator
	quizzes QuizBuilder
	gate    *visibility.Gate
	now     visibility.Clock
	spec    string
	log     *logger.Logger
}

func New(facts ContentGenerator, quizzes QuizBuilder, gate *visibility.Gate, now visibility.Clock, loc *time.Location, spec string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		facts:   facts,
		quizzes: quizzes,
		gate:    gate,
		now:     now,
		spec:    spec,
		log:     log,
	}
}

// Start registers the daily trigger and kicks off the catch-up check in
// the background. Errors inside a run are logged and left for the next
// trigger; the scheduler itself never dies.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunDaily(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	go s.CatchUp(context.Background())
	s.log.Info("daily scheduler started", "spec", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("daily scheduler stopped")
}

// RunDaily generates today's facts and then the quiz. Both steps are
// idempotent, so re-running after a partial failure resumes.
func (s *Scheduler) RunDaily(ctx context.Context) {
	factRes, err := s.facts.GenerateAndStoreToday(ctx)
	if err != nil {
		s.log.Error("fact generation failed", "err", err)
		return
	}
	s.log.Info("fact generation finished", "status", factRes.Status,
		"reason", factRes.Reason, "inserted", factRes.InsertedCount)

	quizRes, err := s.quizzes.GenerateQuestionsForToday(ctx)
	if err != nil {
		s.log.Error("quiz generation failed", "err", err)
		return
	}
	s.log.Info("quiz generation finished", "created", quizRes.Created,
		"reason", quizRes.Reason, "questions", quizRes.QuestionCount)
}

// CatchUp runs the pipeline once at boot when today's content may still
// be missing. Outside the daily generation window it does nothing, so a
// late-night restart cannot generate tomorrow's facts early.
func (s *Scheduler) CatchUp(ctx context.Context) {
	if !s.gate.WithinGenerationWindow(s.now()) {
		s.log.Info("boot catch-up skipped, outside generation window")
		return
	}
	s.log.Info("boot catch-up running")
	s.RunDaily(ctx)
}

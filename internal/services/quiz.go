package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/ai"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

var ErrNoQuizToday = errors.New("no quiz for today")

// QuestionGenerator is the slice of the AI client the quiz builder needs.
type QuestionGenerator interface {
	GenerateQuestionForFact(ctx context.Context, factText string) (*ai.GeneratedQuestion, error)
}

type QuizGenerationResult struct {
	Created       bool   `json:"created"`
	Reason        string `json:"reason,omitempty"`
	QuizID        uint   `json:"quiz_id,omitempty"`
	QuestionCount int    `json:"questionCount,omitempty"`
	QuestionIDs   []uint `json:"soru_ids,omitempty"`
}

type SubmittedAnswer struct {
	QuestionID  uint `json:"soru_id"`
	ChosenIndex int  `json:"secilenIndex"`
}

type SubmitResult struct {
	OK              bool `json:"ok"`
	AlreadyAnswered bool `json:"alreadyAnswered"`
	CorrectCount    int  `json:"correctCount"`
	XPEarned        int  `json:"xpEarned"`
}

type QuizStatus struct {
	Quiz            *models.Quiz      `json:"quiz"`
	Questions       []models.Question `json:"sorular"`
	Answers         map[uint]int      `json:"cevaplar"`
	AlreadyAnswered bool              `json:"zatenCozmusMu"`
	CorrectCount    int               `json:"toplamDogru"`
}

type QuizService struct {
	db  *gorm.DB
	gen QuestionGenerator
	xp  *XPService
	now visibility.Clock
	log *logger.Logger

	quizStart string
	quizEnd   string

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewQuizService(db *gorm.DB, gen QuestionGenerator, xp *XPService, cfg *config.Config, now visibility.Clock, log *logger.Logger) *QuizService {
	return &QuizService{
		db:        db,
		gen:       gen,
		xp:        xp,
		now:       now,
		log:       log,
		quizStart: cfg.QuizStart,
		quizEnd:   cfg.QuizEnd,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ShuffleOptions builds the stored option order: the correct answer and
// the three wrong ones under a uniform Fisher-Yates permutation. The
// returned index is the correct answer's position after the shuffle.
func ShuffleOptions(rng *rand.Rand, correct string, wrong []string) ([]string, int) {
	options := append([]string{correct}, wrong...)
	indices := make([]int, len(options))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	shuffled := make([]string, len(options))
	correctIndex := 0
	for pos, orig := range indices {
		shuffled[pos] = options[orig]
		if orig == 0 {
			correctIndex = pos
		}
	}
	return shuffled, correctIndex
}

// GenerateQuestionsForToday derives one question per fact for today's
// quiz. Facts that already have a question are skipped, so a run that
// failed partway continues where it stopped instead of duplicating.
func (s *QuizService) GenerateQuestionsForToday(ctx context.Context) (*QuizGenerationResult, error) {
	facts, err := s.todayFactRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return &QuizGenerationResult{Created: false, Reason: "today_no_facts"}, nil
	}

	quiz, err := s.getOrCreateTodayQuiz(ctx)
	if err != nil {
		return nil, err
	}

	covered, err := s.coveredFactIDs(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	var pending []factRow
	for _, f := range facts {
		if _, ok := covered[f.ID]; !ok {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		return &QuizGenerationResult{
			Created: false,
			Reason:  "questions_already_exist",
			QuizID:  quiz.ID,
		}, nil
	}

	var inserted []uint
	for _, f := range pending {
		gq, err := s.gen.GenerateQuestionForFact(ctx, f.Content)
		if err != nil {
			// Questions inserted so far stay; the next run picks up the rest.
			return nil, fmt.Errorf("question for fact %d: %w", f.ID, err)
		}

		correct := gq.Options[gq.CorrectIndex]
		wrong := make([]string, 0, len(gq.Options)-1)
		for i, opt := range gq.Options {
			if i != gq.CorrectIndex {
				wrong = append(wrong, opt)
			}
		}

		s.rngMu.Lock()
		options, correctIndex := ShuffleOptions(s.rng, correct, wrong)
		s.rngMu.Unlock()

		question := models.Question{
			QuizID:       quiz.ID,
			FactID:       f.ID,
			Text:         gq.Text,
			Options:      datatypes.NewJSONSlice(options),
			CorrectIndex: correctIndex,
		}
		if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
			return nil, fmt.Errorf("storing question for fact %d: %w", f.ID, err)
		}
		inserted = append(inserted, question.ID)
	}

	s.log.Info("quiz questions generated", "quiz_id", quiz.ID, "count", len(inserted))
	return &QuizGenerationResult{
		Created:       true,
		QuizID:        quiz.ID,
		QuestionCount: len(inserted),
		QuestionIDs:   inserted,
	}, nil
}

// TodayQuizWithQuestions returns today's quiz and its questions, nil quiz
// when none exists yet.
func (s *QuizService) TodayQuizWithQuestions(ctx context.Context) (*models.Quiz, []models.Question, error) {
	quiz, err := s.todayQuiz(ctx)
	if err != nil || quiz == nil {
		return nil, nil, err
	}
	questions, err := s.quizQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

// StatusForUser returns today's quiz together with the user's recorded
// answers and score.
func (s *QuizService) StatusForUser(ctx context.Context, userID uint) (*QuizStatus, error) {
	quiz, err := s.todayQuiz(ctx)
	if err != nil || quiz == nil {
		return nil, err
	}
	questions, err := s.quizQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	var answers []models.Answer
	err = s.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.user_id = ? AND questions.quiz_id = ?", userID, quiz.ID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	status := &QuizStatus{
		Quiz:      quiz,
		Questions: questions,
		Answers:   make(map[uint]int, len(answers)),
	}
	for _, a := range answers {
		status.Answers[a.QuestionID] = a.ChosenIndex
		if a.IsCorrect {
			status.CorrectCount++
		}
	}
	status.AlreadyAnswered = len(answers) > 0
	return status, nil
}

// SubmitAnswers records a user's quiz submission. The (user, quiz) state
// machine has one transition, unanswered to answered; calling again after
// that is safe and grants nothing.
func (s *QuizService) SubmitAnswers(ctx context.Context, userID uint, answers []SubmittedAnswer) (*SubmitResult, error) {
	quiz, err := s.todayQuiz(ctx)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrNoQuizToday
	}

	var answered int64
	err = s.db.WithContext(ctx).Model(&models.Answer{}).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.user_id = ? AND questions.quiz_id = ?", userID, quiz.ID).
		Count(&answered).Error
	if err != nil {
		return nil, err
	}
	if answered > 0 {
		return &SubmitResult{OK: true, AlreadyAnswered: true}, nil
	}

	questions, err := s.quizQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	correctByID := make(map[uint]int, len(questions))
	for _, q := range questions {
		correctByID[q.ID] = q.CorrectIndex
	}

	correctCount := 0
	for _, a := range answers {
		correctIndex, ok := correctByID[a.QuestionID]
		if !ok {
			s.log.Warn("answer for unknown question skipped",
				"user_id", userID, "question_id", a.QuestionID)
			continue
		}

		isCorrect := a.ChosenIndex == correctIndex
		row := models.Answer{
			UserID:      userID,
			QuestionID:  a.QuestionID,
			ChosenIndex: a.ChosenIndex,
			IsCorrect:   isCorrect,
			AnsweredAt:  s.now(),
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent submission won the race for this question;
				// its XP grant owns the correctness credit.
				continue
			}
			return nil, err
		}
		if isCorrect {
			correctCount++
		}
	}

	earned := correctCount * XPPerCorrect
	if earned > 0 {
		if err := s.xp.AddXP(ctx, userID, earned); err != nil {
			s.log.Error("quiz XP grant failed", "user_id", userID, "err", err)
		}
	}

	return &SubmitResult{OK: true, CorrectCount: correctCount, XPEarned: earned}, nil
}

type factRow struct {
	ID      uint
	Content string
}

func (s *QuizService) todayFactRows(ctx context.Context) ([]factRow, error) {
	start, end := dayBounds(s.now())
	var rows []factRow
	err := s.db.WithContext(ctx).Model(&models.Fact{}).
		Select("id", "content").
		Where("visible_from >= ? AND visible_from < ?", start, end).
		Order("visible_from ASC").
		Find(&rows).Error
	return rows, err
}

func (s *QuizService) todayQuiz(ctx context.Context) (*models.Quiz, error) {
	date := s.now().Format("2006-01-02")
	var quiz models.Quiz
	err := s.db.WithContext(ctx).Where("date = ?", date).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) getOrCreateTodayQuiz(ctx context.Context) (*models.Quiz, error) {
	quiz, err := s.todayQuiz(ctx)
	if err != nil {
		return nil, err
	}
	if quiz != nil {
		return quiz, nil
	}

	created := models.Quiz{
		Date:      s.now().Format("2006-01-02"),
		StartTime: s.quizStart,
		EndTime:   s.quizEnd,
	}
	err = s.db.WithContext(ctx).Create(&created).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Concurrent generation created it first; the date constraint
		// guarantees a single quiz per day.
		return s.todayQuiz(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *QuizService) quizQuestions(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (s *QuizService) coveredFactIDs(ctx context.Context, quizID uint) (map[uint]struct{}, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Pluck("fact_id", &ids).Error
	if err != nil {
		return nil, err
	}
	covered := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		covered[id] = struct{}{}
	}
	return covered, nil
}

var _ QuestionGenerator = (*ai.Client)(nil)

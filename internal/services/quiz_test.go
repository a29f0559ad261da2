package services

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/ai"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
)

type stubQuestionGen struct {
	failOn string // fail for facts containing this substring
	calls  int
}

func (g *stubQuestionGen) GenerateQuestionForFact(_ context.Context, factText string) (*ai.GeneratedQuestion, error) {
	g.calls++
	if g.failOn != "" && strings.Contains(factText, g.failOn) {
		return nil, errors.New("generator down")
	}
	return &ai.GeneratedQuestion{
		Text:         "Soru: " + factText,
		Options:      []string{"doğru", "yanlış bir", "yanlış iki", "yanlış üç"},
		CorrectIndex: 0,
	}, nil
}

func newTestQuizService(t *testing.T, db *gorm.DB, gen QuestionGenerator) *QuizService {
	t.Helper()
	cfg := &config.Config{QuizStart: "20:00", QuizEnd: "20:15"}
	xp := NewXPService(db, clockAt(testNoon), logger.NewNop())
	return NewQuizService(db, gen, xp, cfg, clockAt(testNoon), logger.NewNop())
}

func TestShuffleOptionsPreservesOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	correct := "doğru"
	wrong := []string{"a", "b", "c"}

	for i := 0; i < 200; i++ {
		options, idx := ShuffleOptions(rng, correct, wrong)
		require.Len(t, options, 4)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		assert.Equal(t, correct, options[idx], "index must follow the correct option")

		sorted := append([]string(nil), options...)
		sort.Strings(sorted)
		assert.Equal(t, []string{"a", "b", "c", "doğru"}, sorted, "shuffle must not lose or duplicate options")
	}
}

func TestShuffleOptionsReachesAllPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[string]struct{})
	for i := 0; i < 3000; i++ {
		options, _ := ShuffleOptions(rng, "0", []string{"1", "2", "3"})
		seen[strings.Join(options, "")] = struct{}{}
	}
	assert.Len(t, seen, 24, "Fisher-Yates over 4 options has 24 outcomes")
}

func TestGenerateQuestionsForToday(t *testing.T) {
	db := newTestDB(t)
	gen := &stubQuestionGen{}
	svc := newTestQuizService(t, db, gen)
	ctx := context.Background()
	seedTestFacts(t, db, testNoon, 6)

	res, err := svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 6, res.QuestionCount)
	assert.Equal(t, 6, gen.calls)

	var quiz models.Quiz
	require.NoError(t, db.First(&quiz, res.QuizID).Error)
	assert.Equal(t, testNoon.Format("2006-01-02"), quiz.Date)
	assert.Equal(t, "20:00", quiz.StartTime)
	assert.Equal(t, "20:15", quiz.EndTime)

	// second run must not touch the generator again
	res, err = svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "questions_already_exist", res.Reason)
	assert.Equal(t, 6, gen.calls)
}

func TestGenerateQuestionsWithoutFacts(t *testing.T) {
	db := newTestDB(t)
	gen := &stubQuestionGen{}
	svc := newTestQuizService(t, db, gen)

	res, err := svc.GenerateQuestionsForToday(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "today_no_facts", res.Reason)
	assert.Zero(t, gen.calls)
}

func TestGenerateQuestionsResumesAfterFailure(t *testing.T) {
	db := newTestDB(t)
	facts := seedTestFacts(t, db, testNoon, 6)
	gen := &stubQuestionGen{failOn: facts[3].Category}
	svc := newTestQuizService(t, db, gen)
	ctx := context.Background()

	_, err := svc.GenerateQuestionsForToday(ctx)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Question{}).Count(&count).Error)
	assert.EqualValues(t, 3, count, "questions before the failing fact stay in place")

	gen.failOn = ""
	res, err := svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 3, res.QuestionCount, "only the missing facts get questions")

	var factIDs []uint
	require.NoError(t, db.Model(&models.Question{}).Distinct("fact_id").Pluck("fact_id", &factIDs).Error)
	assert.Len(t, factIDs, 6, "exactly one question per fact")
}

func TestSubmitAnswersScoresAndPaysOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuizService(t, db, &stubQuestionGen{})
	ctx := context.Background()
	user := createTestUser(t, db, "quiz@test.local")
	seedTestFacts(t, db, testNoon, 6)

	_, err := svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)

	var questions []models.Question
	require.NoError(t, db.Order("id ASC").Find(&questions).Error)
	require.Len(t, questions, 6)

	// first four right, last two deliberately wrong
	answers := make([]SubmittedAnswer, len(questions))
	for i, q := range questions {
		chosen := q.CorrectIndex
		if i >= 4 {
			chosen = (q.CorrectIndex + 1) % 4
		}
		answers[i] = SubmittedAnswer{QuestionID: q.ID, ChosenIndex: chosen}
	}

	res, err := svc.SubmitAnswers(ctx, user.ID, answers)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.False(t, res.AlreadyAnswered)
	assert.Equal(t, 4, res.CorrectCount)
	assert.Equal(t, 4*XPPerCorrect, res.XPEarned)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 4*XPPerCorrect, got.XP)

	// resubmission changes nothing
	res, err = svc.SubmitAnswers(ctx, user.ID, answers)
	require.NoError(t, err)
	assert.True(t, res.AlreadyAnswered)
	assert.Zero(t, res.XPEarned)

	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 4*XPPerCorrect, got.XP, "no double XP on resubmission")
}

func TestSubmitAnswersSkipsUnknownQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuizService(t, db, &stubQuestionGen{})
	ctx := context.Background()
	user := createTestUser(t, db, "unknown@test.local")
	seedTestFacts(t, db, testNoon, 1)

	_, err := svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)

	var q models.Question
	require.NoError(t, db.First(&q).Error)

	res, err := svc.SubmitAnswers(ctx, user.ID, []SubmittedAnswer{
		{QuestionID: q.ID, ChosenIndex: q.CorrectIndex},
		{QuestionID: 99999, ChosenIndex: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CorrectCount, "the unknown id is dropped, the rest scores")
}

func TestSubmitAnswersWithoutQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuizService(t, db, &stubQuestionGen{})
	user := createTestUser(t, db, "noquiz@test.local")

	_, err := svc.SubmitAnswers(context.Background(), user.ID, []SubmittedAnswer{{QuestionID: 1}})
	assert.ErrorIs(t, err, ErrNoQuizToday)
}

func TestStatusForUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuizService(t, db, &stubQuestionGen{})
	ctx := context.Background()
	user := createTestUser(t, db, "status@test.local")
	seedTestFacts(t, db, testNoon, 2)

	_, err := svc.GenerateQuestionsForToday(ctx)
	require.NoError(t, err)

	status, err := svc.StatusForUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.False(t, status.AlreadyAnswered)
	assert.Len(t, status.Questions, 2)
	assert.Empty(t, status.Answers)

	var questions []models.Question
	require.NoError(t, db.Order("id ASC").Find(&questions).Error)
	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, ChosenIndex: questions[0].CorrectIndex},
		{QuestionID: questions[1].ID, ChosenIndex: (questions[1].CorrectIndex + 1) % 4},
	}
	_, err = svc.SubmitAnswers(ctx, user.ID, answers)
	require.NoError(t, err)

	status, err = svc.StatusForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, status.AlreadyAnswered)
	assert.Equal(t, 1, status.CorrectCount)
	assert.Equal(t, questions[0].CorrectIndex, status.Answers[questions[0].ID])
}

func TestStatusForUserWithoutQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuizService(t, db, &stubQuestionGen{})

	status, err := svc.StatusForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, status)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

type QuizHandler struct {
	quizzes *services.QuizService
	gate    *visibility.Gate
	now     visibility.Clock
	log     *logger.Logger
}

func NewQuizHandler(quizzes *services.QuizService, gate *visibility.Gate, now visibility.Clock, log *logger.Logger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, gate: gate, now: now, log: log}
}

// requireWindow rejects quiz traffic outside the daily window.
func (h *QuizHandler) requireWindow(c *gin.Context) bool {
	if h.gate.QuizWindowActive(h.now()) {
		return true
	}
	failCode(c, http.StatusForbidden, CodeQuizNotActive,
		"Quiz şu an aktif değil. Quiz saati: "+h.gate.QuizWindowLabel())
	return false
}

// Today serves today's quiz with its questions (correct indexes are never
// serialized).
func (h *QuizHandler) Today(c *gin.Context) {
	if !h.requireWindow(c) {
		return
	}

	quiz, questions, err := h.quizzes.TodayQuizWithQuestions(c.Request.Context())
	if err != nil {
		h.log.Error("today quiz lookup failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if quiz == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "quiz": nil, "sorular": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "quiz": quiz, "sorular": questions})
}

// Status serves the quiz plus the user's recorded answers and score.
func (h *QuizHandler) Status(c *gin.Context) {
	if !h.requireWindow(c) {
		return
	}

	userID := c.GetUint("user_id")
	status, err := h.quizzes.StatusForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("quiz status failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if status == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "quiz": nil, "sorular": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"quiz":          status.Quiz,
		"sorular":       status.Questions,
		"cevaplar":      status.Answers,
		"zatenCozmusMu": status.AlreadyAnswered,
		"toplamDogru":   status.CorrectCount,
	})
}

type SubmitRequest struct {
	Answers []services.SubmittedAnswer `json:"answers" binding:"required,min=1"`
}

// Submit records the user's answers. Repeat submissions are safe and
// grant nothing.
func (h *QuizHandler) Submit(c *gin.Context) {
	if !h.requireWindow(c) {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "answers boş olamaz")
		return
	}

	userID := c.GetUint("user_id")
	result, err := h.quizzes.SubmitAnswers(c.Request.Context(), userID, req.Answers)
	if err != nil {
		if errors.Is(err, services.ErrNoQuizToday) {
			fail(c, http.StatusNotFound, "bugün için quiz bulunamadı")
			return
		}
		h.log.Error("quiz submit failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdminGenerate manually triggers today's quiz generation (dev only).
func (h *QuizHandler) AdminGenerate(c *gin.Context) {
	result, err := h.quizzes.GenerateQuestionsForToday(c.Request.Context())
	if err != nil {
		h.log.Error("manual quiz generation failed", "err", err)
		fail(c, http.StatusInternalServerError, "üretim hatası: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

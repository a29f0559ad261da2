package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

type FactHandler struct {
	facts *services.FactService
	xp    *services.XPService
	gate  *visibility.Gate
	now   visibility.Clock
	log   *logger.Logger
}

func NewFactHandler(facts *services.FactService, xp *services.XPService, gate *visibility.Gate, now visibility.Clock, log *logger.Logger) *FactHandler {
	return &FactHandler{facts: facts, xp: xp, gate: gate, now: now, log: log}
}

// Active serves the fact whose slot contains now. During the quiz window
// facts are hidden so the quiz cannot be answered by reading along.
func (h *FactHandler) Active(c *gin.Context) {
	if h.gate.QuizWindowActive(h.now()) {
		failCode(c, http.StatusForbidden, CodeQuizWindow,
			"Quiz saatinde bilgiler gizlidir. Quiz saati: "+h.gate.QuizWindowLabel())
		return
	}

	fact, err := h.facts.ActiveFact(c.Request.Context())
	if err != nil {
		h.log.Error("active fact lookup failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.Header("Cache-Control", "no-store")
	if fact == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, fact)
}

// Daily serves the full list of a day's facts. Locked until the quiz
// window has ended; unlocked for the rest of the day.
func (h *FactHandler) Daily(c *gin.Context) {
	now := h.now()
	if h.gate.FactsLocked(now) {
		failCode(c, http.StatusForbidden, CodeLockedUntilAfterQuiz,
			"Günün bilgileri quiz bitene kadar kilitlidir.")
		return
	}

	day := now
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			fail(c, http.StatusBadRequest, "geçersiz tarih formatı, YYYY-MM-DD bekleniyor")
			return
		}
		day = parsed
	}

	facts, err := h.facts.FactsForDay(c.Request.Context(), day)
	if err != nil {
		h.log.Error("daily facts lookup failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, facts)
}

type MarkReadRequest struct {
	FactID uint `json:"bilgiId" binding:"required"`
}

// MarkRead grants the fact-read XP once per (user, fact). Disabled during
// the quiz window.
func (h *FactHandler) MarkRead(c *gin.Context) {
	if h.gate.ReadRewardBlocked(h.now()) {
		failCode(c, http.StatusForbidden, CodeQuizWindow,
			"Quiz saatinde bilgi okuma ödülü kapalıdır.")
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bilgiId gerekli")
		return
	}

	userID := c.GetUint("user_id")
	earned, err := h.xp.AddFactReadXP(c.Request.Context(), userID, req.FactID)
	if err != nil {
		h.log.Error("fact read XP failed", "user_id", userID, "fact_id", req.FactID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "xpEarned": earned})
}

// AdminGenerate manually triggers today's fact generation (dev only).
func (h *FactHandler) AdminGenerate(c *gin.Context) {
	result, err := h.facts.GenerateAndStoreToday(c.Request.Context())
	if err != nil {
		h.log.Error("manual fact generation failed", "err", err)
		fail(c, http.StatusInternalServerError, "üretim hatası: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
	log   *logger.Logger
}

func NewStatsHandler(stats *services.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: log}
}

func (h *StatsHandler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")
	stats, err := h.stats.UserStats(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("user stats failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

func (h *StatsHandler) MyComments(c *gin.Context) {
	userID := c.GetUint("user_id")
	comments, err := h.stats.Comments(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("stats comments failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"overallComment": comments.OverallComment,
		"todayComment":   comments.TodayComment,
	})
}

func (h *StatsHandler) Leaderboard(c *gin.Context) {
	entries, err := h.stats.Leaderboard(c.Request.Context())
	if err != nil {
		h.log.Error("leaderboard failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "leaderboard": entries})
}

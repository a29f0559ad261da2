package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/middleware"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	sessions *services.SessionService
	xp       *services.XPService
	log      *logger.Logger
}

func NewAuthHandler(auth *services.AuthService, sessions *services.SessionService, xp *services.XPService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, xp: xp, log: log}
}

type RegisterRequest struct {
	Email       string `json:"eposta" binding:"required,email"`
	Password    string `json:"parola" binding:"required,min=6"`
	DisplayName string `json:"kullanici_adi" binding:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"eposta" binding:"required"`
	Password string `json:"parola" binding:"required"`
}

// Register creates the account, grants the daily login XP and opens a
// session in one step.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "eksik alan: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fail(c, http.StatusConflict, "e-posta zaten kayıtlı")
			return
		}
		h.log.Error("register failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}

	h.finishLogin(c, user.ID)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "eksik alan: "+err.Error())
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "geçersiz giriş")
			return
		}
		h.log.Error("login failed", "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}

	h.finishLogin(c, user.ID)
}

// finishLogin grants the first-login-of-the-day XP, opens the session and
// responds with the fresh user row so xp/level reflect the grant.
func (h *AuthHandler) finishLogin(c *gin.Context, userID uint) {
	ctx := c.Request.Context()

	loginXP, err := h.xp.AddDailyLoginXP(ctx, userID)
	if err != nil {
		// The login still succeeds; only the bonus is lost.
		h.log.Error("daily login XP failed", "user_id", userID, "err", err)
	}

	user, err := h.auth.GetUser(ctx, userID)
	if err != nil {
		h.log.Error("reloading user failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}

	token, err := h.sessions.Create(ctx, userID)
	if err != nil {
		h.log.Error("session create failed", "user_id", userID, "err", err)
		fail(c, http.StatusInternalServerError, "sunucu hatası")
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 60*60*24*7, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user, "loginXp": loginXP})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "oturum bulunamadı")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			h.log.Warn("session destroy failed", "err", err)
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/models"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService manages server-side login sessions. The browser cookie
// carries a signed JWT whose only claim of interest is the session row id,
// so a stolen secret alone is not enough to forge a login.
type SessionService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    visibility.Clock
}

func NewSessionService(db *gorm.DB, secret string, ttl time.Duration, now visibility.Clock) *SessionService {
	return &SessionService{db: db, secret: []byte(secret), ttl: ttl, now: now}
}

// Create opens a session for the user and returns the signed cookie token.
func (s *SessionService) Create(ctx context.Context, userID uint) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	id := hex.EncodeToString(buf)

	session := models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": id,
		"exp": session.ExpiresAt.Unix(),
		"iat": s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Validate resolves a cookie token to the user id of a live session.
func (s *SessionService) Validate(ctx context.Context, tokenString string) (uint, error) {
	id, err := s.sessionID(tokenString)
	if err != nil {
		return 0, ErrInvalidSession
	}

	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return 0, ErrInvalidSession
	}
	if s.now().After(session.ExpiresAt) {
		return 0, ErrInvalidSession
	}
	return session.UserID, nil
}

// Destroy removes the server-side session. Safe to call with a token that
// no longer resolves.
func (s *SessionService) Destroy(ctx context.Context, tokenString string) error {
	id, err := s.sessionID(tokenString)
	if err != nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (s *SessionService) sessionID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	id, ok := claims["sid"].(string)
	if !ok || id == "" {
		return "", ErrInvalidSession
	}
	return id, nil
}

package handlers

import "github.com/gin-gonic/gin"

// Gating error codes the client renders tailored messages for.
const (
	CodeQuizWindow           = "QUIZ_WINDOW"
	CodeQuizNotActive        = "QUIZ_NOT_ACTIVE"
	CodeLockedUntilAfterQuiz = "LOCKED_UNTIL_AFTER_QUIZ"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

func failCode(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"ok": false, "code": code, "message": msg})
}

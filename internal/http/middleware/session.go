package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/models"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// SessionReader то, что middleware нужно знать о сессии.
type SessionReader interface {
	Authenticated() bool
	User() *models.User
	Notice() string
}

// RequireSession пропускает запрос только при активной сессии.
// Если сессию закрыли принудительно, клиент получает сохранённое уведомление.
func RequireSession(session SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.Authenticated() {
			message := session.Notice()
			if message == "" {
				message = apperror.ErrUnauthorized.Message
			}
			response.Abort(c, http.StatusUnauthorized, apperror.ErrCodeUnauthorized, message)
			return
		}
		c.Next()
	}
}

// RequireAdmin ограничивает маршрут администраторами (разбор споров).
func RequireAdmin(session SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.User().IsAdmin() {
			response.Abort(c, http.StatusForbidden, apperror.ErrCodeForbidden, "действие доступно только администратору")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// IDValidator проверяет, что параметры пути являются положительными идентификаторами REST API.
// Использование: router.GET("/orders/:id", IDValidator("id"), handler.GetOrder)
func IDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				response.Abort(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, "параметр "+name+" обязателен")
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				response.Abort(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, "параметр "+name+" должен быть положительным числом")
				return
			}
		}
		c.Next()
	}
}

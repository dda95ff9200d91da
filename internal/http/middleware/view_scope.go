package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
	"github.com/homefix/marketplace-client/internal/viewscope"
)

const (
	// ViewIDHeader связывает запрос с открытым представлением.
	ViewIDHeader = "X-View-ID"

	ContextViewIDKey = "viewID"
)

// ViewScope привязывает контекст запроса к представлению из заголовка X-View-ID.
// Закрытие представления отменяет запрос, и стор отбрасывает опоздавший ответ сервера.
// Запрос без заголовка живёт в контексте самого HTTP запроса.
func ViewScope(views *viewscope.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewID := c.GetHeader(ViewIDHeader)
		if viewID == "" {
			c.Next()
			return
		}

		ctx, cancel, err := views.Context(c.Request.Context(), viewID)
		if err != nil {
			if errors.Is(err, viewscope.ErrUnknownView) {
				response.Abort(c, http.StatusNotFound, apperror.ErrCodeNotFound, viewscope.ErrUnknownView.Message)
				return
			}
			response.Abort(c, http.StatusInternalServerError, apperror.ErrCodeInternal, "внутренняя ошибка клиента")
			return
		}
		defer cancel()

		c.Set(ContextViewIDKey, viewID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

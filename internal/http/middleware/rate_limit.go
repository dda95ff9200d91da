package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// ErrCodeRateLimited код ответа при превышении лимита.
const ErrCodeRateLimited apperror.ErrorCode = "RATE_LIMITED"

// RateLimitMiddleware ограничивает частоту запросов к мосту с одного IP.
// Мост проксирует переходы на REST API, лимит защищает сервер от зациклившегося представления.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 120
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		lctx, err := instance.Get(c, c.ClientIP())
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, apperror.ErrCodeInternal, "внутренняя ошибка клиента")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			response.Abort(c, http.StatusTooManyRequests, ErrCodeRateLimited, "слишком много запросов, попробуйте позже")
			return
		}

		c.Next()
	}
}

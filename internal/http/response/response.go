package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// StatusClientClosedRequest отдаётся, когда представление закрылось раньше ответа сервера.
const StatusClientClosedRequest = 499

// CodeCancelled код ответа для отменённого перехода.
const CodeCancelled = "CANCELLED"

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage добавляет к данным сообщение стора об успехе.
func SuccessWithMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SuccessWithWarning успешный ответ, к которому приложена некритичная ошибка:
// операция выполнена, но часть данных получить не удалось.
func SuccessWithWarning(c *gin.Context, data any, message string, err error) {
	code := apperror.ErrCodeInternal
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: apperror.MessageOf(err),
		},
	})
}

func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error переводит ошибку стора или клиента API в ответ моста.
func Error(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.JSON(StatusClientClosedRequest, Response{
			Success: false,
			Error: &ErrorInfo{
				Code:    CodeCancelled,
				Message: "запрос отменён",
			},
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, Response{
			Success: false,
			Error: &ErrorInfo{
				Code:    string(appErr.Code),
				Message: appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeInternal),
			Message: "внутренняя ошибка клиента",
		},
	})
}

// Abort пишет ошибку и прерывает цепочку middleware.
func Abort(c *gin.Context, status int, code apperror.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeBadRequest),
			Message: message,
		},
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeNotFound),
			Message: message,
		},
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeUnauthorized),
			Message: message,
		},
	})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(apperror.ErrCodeForbidden),
			Message: message,
		},
	})
}

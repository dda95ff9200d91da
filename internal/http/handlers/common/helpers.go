package common

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// ParseIDParam читает идентификатор REST API из параметра пути.
func ParseIDParam(c *gin.Context, paramName string) (int64, error) {
	param := c.Param(paramName)
	if param == "" {
		return 0, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("параметр %s отсутствует", paramName))
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("параметр %s должен быть положительным числом", paramName))
	}
	return id, nil
}

// BindJSON разбирает тело запроса и возвращает ошибку валидации в едином формате.
func BindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные данные запроса")
	}
	return nil
}

// BindOptionalJSON разбирает тело, если оно есть. Пустое тело допустимо.
func BindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return BindJSON(c, req)
}

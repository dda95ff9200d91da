package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeNetwork              ErrorCode = "NETWORK_ERROR"
	ErrCodeTransitionNotAllowed ErrorCode = "TRANSITION_NOT_ALLOWED"
	ErrCodeSessionExpired       ErrorCode = "SESSION_EXPIRED"
	ErrCodeRefreshFailed        ErrorCode = "REFRESH_FAILED"
)

// AppError единая форма ошибки для всех слоёв клиента.
// Payload хранит сырой ответ сервера, если ошибка пришла из REST API.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	Payload    json.RawMessage
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// FromHTTPStatus строит ошибку по статусу ответа REST API.
func FromHTTPStatus(status int, message string, payload []byte) *AppError {
	return &AppError{
		Code:       httpStatusToCode(status),
		Message:    message,
		HTTPStatus: status,
		Payload:    json.RawMessage(payload),
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeTransitionNotAllowed:
		return http.StatusConflict
	case ErrCodeNetwork, ErrCodeRefreshFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func httpStatusToCode(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeSessionExpired
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrCodeValidation
	case status >= 400 && status < 500:
		return ErrCodeBadRequest
	default:
		return ErrCodeInternal
	}
}

// MessageOf возвращает человекочитаемое сообщение любой ошибки.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsSessionExpired(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeSessionExpired
}

func IsTransitionNotAllowed(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeTransitionNotAllowed
}

// IsRefreshFailed операция выполнена сервером, но перечитать её результат не удалось.
func IsRefreshFailed(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeRefreshFailed
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrOrderNotFound      = New(ErrCodeNotFound, "заказ не найден")
	ErrOfferNotFound      = New(ErrCodeNotFound, "предложение не найдено")
	ErrDisputeNotFound    = New(ErrCodeNotFound, "спор не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrSessionExpired     = New(ErrCodeSessionExpired, "сессия истекла, войдите снова")
	ErrNothingToTransfer  = New(ErrCodeTransitionNotAllowed, "нет средств в ожидании для перевода")
	ErrInvalidResolution  = New(ErrCodeValidation, "некорректное решение по спору")
	ErrInvalidOfferAction = New(ErrCodeValidation, "некорректное действие с предложением")
)

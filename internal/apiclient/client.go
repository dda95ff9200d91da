package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 50
	maxErrorBody    = 1 << 20

	// RequestIDHeader заголовок для сквозной корреляции запросов с логами сервера.
	RequestIDHeader = "X-Request-ID"
)

// TokenSource отдаёт текущий access токен. Пустая строка означает анонимный запрос.
type TokenSource interface {
	Token() string
}

// SessionExpiredFunc вызывается при ответе 401/403, клиент обязан разлогиниться.
type SessionExpiredFunc func(notice string)

// Client обёртка над REST API маркетплейса.
type Client struct {
	baseURL          string
	tokens           TokenSource
	httpClient       *http.Client
	pageSize         int
	onSessionExpired SessionExpiredFunc
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (используется в тестах).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout задаёт таймаут одного запроса.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithPageSize задаёт размер единственной загружаемой страницы списков.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithSessionExpiredHandler регистрирует реакцию на истёкшую сессию.
func WithSessionExpiredHandler(fn SessionExpiredFunc) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// NewClient создаёт клиент REST API.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokens:   tokens,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize размер страницы, запрашиваемой у списковых эндпоинтов.
func (c *Client) PageSize() int {
	return c.pageSize
}

// do выполняет запрос и декодирует ответ в out (если out != nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сформировать запрос")
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := logger.Log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	log.Debug("apiclient: запрос")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмена вызывающей стороной не является ошибкой транспорта
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.WithError(err).Warn("apiclient: сервер недоступен")
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "сервер недоступен, проверьте подключение")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		appErr := c.normalizeError(resp)
		log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"code":   appErr.Code,
		}).Warn("apiclient: сервер вернул ошибку")
		return appErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "некорректный ответ сервера")
	}
	return nil
}

// normalizeError приводит любой неуспешный ответ к apperror.AppError.
// Тело проверяется по единственной схеме dto.ErrorResponse, иначе используется текст статуса.
func (c *Client) normalizeError(resp *http.Response) *apperror.AppError {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := ""
	if parsed, ok := parseErrorResponse(payload); ok {
		message = parsed.Detail
		if len(parsed.Fields) > 0 {
			message = message + ": " + formatFieldErrors(parsed.Fields)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		notice := apperror.ErrSessionExpired.Message
		if c.onSessionExpired != nil {
			c.onSessionExpired(notice)
		}
		if message == "" {
			message = notice
		}
	}

	if message == "" {
		message = fmt.Sprintf("запрос завершился с ошибкой: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return apperror.FromHTTPStatus(resp.StatusCode, message, payload)
}

func parseErrorResponse(payload []byte) (dto.ErrorResponse, bool) {
	var parsed dto.ErrorResponse
	if len(bytes.TrimSpace(payload)) == 0 {
		return parsed, false
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return parsed, false
	}
	if strings.TrimSpace(parsed.Detail) == "" {
		return parsed, false
	}
	return parsed, true
}

func formatFieldErrors(fields map[string][]string) string {
	parts := make([]string, 0, len(fields))
	for name, messages := range fields {
		parts = append(parts, name+": "+strings.Join(messages, ", "))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

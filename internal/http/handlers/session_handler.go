package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/clientstate"
	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/http/handlers/common"
	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/models"
)

// UserFetcher загружает профиль владельца токена.
type UserFetcher interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
}

// SessionHandler вход по токену, состояние сессии и выход.
// Сброс сторов и закрытие представлений при выходе выполняет подписчик session.OnChange.
type SessionHandler struct {
	session *clientstate.Session
	users   UserFetcher
}

func NewSessionHandler(session *clientstate.Session, users UserFetcher) *SessionHandler {
	return &SessionHandler{session: session, users: users}
}

// SessionView ответ GET /api/session.
type SessionView struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	Notice        string       `json:"notice,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

func (h *SessionHandler) view() SessionView {
	v := SessionView{
		Authenticated: h.session.Authenticated(),
		User:          h.session.User(),
		Notice:        h.session.Notice(),
	}
	if claims, ok := h.session.Claims(); ok && !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt
		v.ExpiresAt = &exp
	}
	return v
}

// Get GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	response.Success(c, h.view())
}

// Login POST /api/session
// Токен сохраняется сразу, затем подгружается профиль. Если сервер токен не принял,
// сессия откатывается.
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if claims, ok := clientstate.ParseTokenClaims(req.Token); ok && claims.Expired(time.Now()) {
		response.Unauthorized(c, "срок действия токена истёк")
		return
	}

	ctx := c.Request.Context()
	if err := h.session.Login(ctx, req.Token, nil); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.GetCurrentUser(ctx)
	if err != nil {
		// При 401/403 клиент API уже закрыл сессию и оставил уведомление
		if h.session.Authenticated() {
			if logoutErr := h.session.Logout(context.WithoutCancel(ctx)); logoutErr != nil {
				logger.Log.WithError(logoutErr).Error("session: не удалось откатить вход")
			}
		}
		response.Error(c, err)
		return
	}

	if err := h.session.SetUser(ctx, user); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, h.view())
}

// Logout DELETE /api/session
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearNotice DELETE /api/session/notice
func (h *SessionHandler) ClearNotice(c *gin.Context) {
	h.session.ClearNotice()
	c.Status(http.StatusNoContent)
}

package clientstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/models"
)

// Фиксированные ключи хранилища.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

const forceLogoutTimeout = 5 * time.Second

// TokenClaims поля access токена, нужные клиенту.
// Подпись не проверяется: её проверяет сервер.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired сообщает, что срок токена истёк к моменту now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseTokenClaims читает клеймы JWT без проверки подписи.
// Непрозрачный (не JWT) токен возвращает ok=false.
func ParseTokenClaims(token string) (TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	var out TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.Role, _ = claims["role"].(string)
	return out, true
}

// ChangeFunc получает уведомление о входе или выходе.
type ChangeFunc func(authenticated bool)

// Session токен и пользователь текущего профиля, сохраняемые в Storage.
type Session struct {
	mu        sync.RWMutex
	storage   Storage
	token     string
	user      *models.User
	notice    string
	listeners []ChangeFunc
	now       func() time.Time
}

// NewSession загружает сохранённую сессию. Истёкший токен удаляется сразу.
func NewSession(ctx context.Context, storage Storage) (*Session, error) {
	s := &Session{storage: storage, now: time.Now}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("clientstate: не удалось загрузить токен: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	if claims, isJWT := ParseTokenClaims(token); isJWT && claims.Expired(s.now()) {
		logger.Log.WithField("expired_at", claims.ExpiresAt).Warn("clientstate: сохранённый токен истёк, сессия сброшена")
		s.notice = "сессия истекла, войдите снова"
		return s.clearStorage(ctx)
	}

	var user *models.User
	if raw, ok, err := s.storage.Get(ctx, KeyUser); err != nil {
		return fmt.Errorf("clientstate: не удалось загрузить пользователя: %w", err)
	} else if ok && raw != "" {
		user = &models.User{}
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			logger.Log.WithError(err).Warn("clientstate: сохранённый пользователь повреждён")
			user = nil
		}
	}

	s.token = token
	s.user = user
	return nil
}

// Login сохраняет токен и пользователя. user может быть nil до загрузки профиля.
func (s *Session) Login(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return fmt.Errorf("clientstate: пустой токен")
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := s.persistUser(ctx, user); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.notice = ""
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	logger.Log.WithField("user_id", userID(user)).Info("clientstate: вход выполнен")
	for _, fn := range listeners {
		fn(true)
	}
	return nil
}

// SetUser обновляет сохранённого пользователя, не трогая токен.
func (s *Session) SetUser(ctx context.Context, user *models.User) error {
	if err := s.persistUser(ctx, user); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Logout очищает сессию по действию пользователя.
func (s *Session) Logout(ctx context.Context) error {
	return s.logout(ctx, "")
}

// ForceLogout разлогинивает клиента после ответа 401/403 и запоминает уведомление.
func (s *Session) ForceLogout(notice string) {
	ctx, cancel := context.WithTimeout(context.Background(), forceLogoutTimeout)
	defer cancel()

	if !s.Authenticated() {
		return
	}
	logger.Log.WithFields(logrus.Fields{"user_id": userID(s.User())}).Warn("clientstate: принудительный выход")
	if err := s.logout(ctx, notice); err != nil {
		logger.Log.WithError(err).Error("clientstate: не удалось очистить сессию")
	}
}

func (s *Session) logout(ctx context.Context, notice string) error {
	// Память очищаем даже при ошибке хранилища: токен больше недействителен
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.notice = notice
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	err := s.clearStorage(ctx)
	for _, fn := range listeners {
		fn(false)
	}
	return err
}

func (s *Session) clearStorage(ctx context.Context) error {
	if err := s.storage.Remove(ctx, KeyToken); err != nil {
		return err
	}
	return s.storage.Remove(ctx, KeyUser)
}

func (s *Session) persistUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.storage.Remove(ctx, KeyUser)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("clientstate: не удалось сериализовать пользователя: %w", err)
	}
	return s.storage.Set(ctx, KeyUser, string(raw))
}

// Token реализует apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Notice уведомление для пользователя, например об истёкшей сессии.
func (s *Session) Notice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

func (s *Session) ClearNotice() {
	s.mu.Lock()
	s.notice = ""
	s.mu.Unlock()
}

// Claims возвращает клеймы текущего токена, если это JWT.
func (s *Session) Claims() (TokenClaims, bool) {
	token := s.Token()
	if token == "" {
		return TokenClaims{}, false
	}
	return ParseTokenClaims(token)
}

// OnChange подписывает fn на вход и выход.
func (s *Session) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func userID(u *models.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

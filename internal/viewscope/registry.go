package viewscope

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// ErrUnknownView представление не открыто или уже закрыто.
var ErrUnknownView = apperror.New(apperror.ErrCodeNotFound, "представление не найдено или уже закрыто")

type scope struct {
	ctx      context.Context
	cancel   context.CancelFunc
	requests map[uint64]context.CancelFunc
}

// close отменяет представление и его запросы. К возврату все контексты уже отменены.
func (sc *scope) close(requests []context.CancelFunc) {
	sc.cancel()
	for _, cancel := range requests {
		cancel()
	}
}

// Registry хранит открытые представления. Закрытие представления отменяет
// все переходы, запущенные в его рамках.
type Registry struct {
	mu     sync.Mutex
	scopes map[string]*scope
	base   context.Context
	nextID uint64
}

// NewRegistry создаёт реестр. Отмена base закрывает все представления.
func NewRegistry(base context.Context) *Registry {
	return &Registry{
		scopes: make(map[string]*scope),
		base:   base,
	}
}

// Open открывает представление и возвращает его идентификатор.
func (r *Registry) Open() string {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(r.base)

	r.mu.Lock()
	r.scopes[id] = &scope{ctx: ctx, cancel: cancel, requests: make(map[uint64]context.CancelFunc)}
	r.mu.Unlock()

	logger.Log.WithField("view_id", id).Debug("viewscope: представление открыто")
	return id
}

// Context возвращает контекст запроса, отменяемый и вместе с parent,
// и при закрытии представления. Вызывающий обязан вызвать cancel.
func (r *Registry) Context(parent context.Context, id string) (context.Context, context.CancelFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sc, ok := r.scopes[id]
	if !ok {
		return nil, nil, ErrUnknownView
	}

	ctx, cancel := context.WithCancel(parent)
	r.nextID++
	key := r.nextID
	sc.requests[key] = cancel
	// Close и CloseAll отменяют запрос сами, AfterFunc нужен для отмены base
	stop := context.AfterFunc(sc.ctx, cancel)
	return ctx, func() {
		stop()
		r.mu.Lock()
		delete(sc.requests, key)
		r.mu.Unlock()
		cancel()
	}, nil
}

// detach убирает представление из реестра и забирает его запросы. Вызывается под r.mu.
func (r *Registry) detach(id string) (*scope, []context.CancelFunc) {
	sc, ok := r.scopes[id]
	if !ok {
		return nil, nil
	}
	delete(r.scopes, id)
	requests := make([]context.CancelFunc, 0, len(sc.requests))
	for _, cancel := range sc.requests {
		requests = append(requests, cancel)
	}
	clear(sc.requests)
	return sc, requests
}

// Close закрывает представление и синхронно отменяет его переходы. Повторный вызов безопасен.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	sc, requests := r.detach(id)
	r.mu.Unlock()

	if sc == nil {
		return false
	}
	sc.close(requests)
	logger.Log.WithField("view_id", id).Debug("viewscope: представление закрыто")
	return true
}

// CloseAll закрывает все представления, например при выходе пользователя.
func (r *Registry) CloseAll() {
	type closing struct {
		sc       *scope
		requests []context.CancelFunc
	}

	r.mu.Lock()
	all := make([]closing, 0, len(r.scopes))
	for id := range r.scopes {
		sc, requests := r.detach(id)
		all = append(all, closing{sc: sc, requests: requests})
	}
	r.mu.Unlock()

	for _, c := range all {
		c.sc.close(c.requests)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

package orders

import (
	"context"
	"sync"

	"github.com/homefix/marketplace-client/internal/dto"
	"github.com/homefix/marketplace-client/internal/goroutine"
	"github.com/homefix/marketplace-client/internal/models"
)

// API подмножество REST клиента, которое использует стор заказов.
type API interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error)
	CreateDirectOffer(ctx context.Context, req dto.DirectOfferRequest) (*models.Order, error)
	ListClientOrders(ctx context.Context) ([]models.Order, error)
	ListAvailableOrders(ctx context.Context) ([]models.Order, error)
	ListTechnicianOrders(ctx context.Context) ([]models.Order, error)
	ListTechnicianClientOffers(ctx context.Context) ([]models.ProjectOffer, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	GetPublicOrder(ctx context.Context, orderID int64) (*models.Order, error)
	SubmitOffer(ctx context.Context, orderID int64, req dto.SubmitOfferRequest) (*models.ProjectOffer, error)
	AcceptOffer(ctx context.Context, orderID, offerID int64) (*models.Order, error)
	UpdateOffer(ctx context.Context, offerID int64, req dto.UpdateOfferRequest) (*models.ProjectOffer, error)
	UpdateOrder(ctx context.Context, orderID int64, req dto.UpdateOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID int64, reason string) (*models.Order, error)
	ReleaseFunds(ctx context.Context, orderID int64) (*models.Order, error)
	ConfirmEscrow(ctx context.Context, orderID int64) (*models.Order, error)
	StartWork(ctx context.Context, orderID int64) (*models.Order, error)
	MarkJobDone(ctx context.Context, orderID int64) (*models.Order, error)
	InitiateDispute(ctx context.Context, orderID int64, argument string) (*dto.DisputeResponse, error)
	GetDispute(ctx context.Context, disputeID int64) (*models.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID int64, req dto.ResolveDisputeRequest) (*dto.DisputeResponse, error)
	RespondToClientOffer(ctx context.Context, technicianID, offerID int64, req dto.RespondToOfferRequest) (*models.ProjectOffer, error)
}

// Event уведомление подписчика о применённом действии.
// Уведомления параллельных Dispatch могут прийти не по порядку, Seq позволяет отбросить устаревшие.
type Event struct {
	Seq    uint64
	Action string
	State  State
}

// Store потокобезопасная обёртка над Reduce.
// Результаты запросов применяются в порядке их завершения.
type Store struct {
	api API

	mu     sync.RWMutex
	state  State
	seq    uint64
	subs   map[int]func(Event)
	nextID int

	background func(fn func())
}

// Option настраивает Store.
type Option func(*Store)

// WithBackgroundRunner подменяет запуск фоновых обновлений (в тестах выполняет синхронно).
func WithBackgroundRunner(run func(fn func())) Option {
	return func(s *Store) {
		s.background = run
	}
}

func NewStore(api API, opts ...Option) *Store {
	s := &Store{
		api:        api,
		state:      NewState(),
		subs:       make(map[int]func(Event)),
		background: goroutine.SafeGo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State текущий снимок. Снимок не меняется после возврата.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch применяет действие и уведомляет подписчиков вне блокировки.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.seq++
	next, seq := s.state, s.seq
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	event := Event{Seq: seq, Action: a.Type(), State: next}
	for _, fn := range subs {
		fn(event)
	}
	return next
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ClearCurrentOrder очищает слот просмотра. Слот не очищается автоматически.
func (s *Store) ClearCurrentOrder() {
	s.Dispatch(CurrentOrderCleared{})
}

func (s *Store) ClearError() {
	s.Dispatch(ErrorCleared{})
}

func (s *Store) ClearMessage() {
	s.Dispatch(MessageCleared{})
}

// Reset сбрасывает кэш, например после выхода пользователя.
func (s *Store) Reset() {
	s.Dispatch(Reset{})
}

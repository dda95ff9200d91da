package balance

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/homefix/marketplace-client/internal/export"
	"github.com/homefix/marketplace-client/internal/logger"
	"github.com/homefix/marketplace-client/internal/models"
	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// API подмножество REST клиента для балансов и журнала операций.
type API interface {
	GetBalance(ctx context.Context) (*models.UserBalance, error)
	TransferPendingToAvailable(ctx context.Context) (string, error)
	ListMyTransactions(ctx context.Context) ([]models.Transaction, error)
}

// StoreError ошибка последней операции в форме {message}.
type StoreError struct {
	Message string             `json:"message"`
	Code    apperror.ErrorCode `json:"code,omitempty"`
}

// State балансы и журнал операций текущего пользователя.
type State struct {
	Balance      models.UserBalance   `json:"balance"`
	Loaded       bool                 `json:"loaded"`
	Transactions []models.Transaction `json:"transactions"`
	InFlight     int                  `json:"-"`
	Loading      bool                 `json:"loading"`
	Error        *StoreError          `json:"error"`
	Message      string               `json:"message"`
}

// Event уведомление подписчика об изменении состояния.
type Event struct {
	Seq    uint64
	Action string
	State  State
}

type Store struct {
	api API

	mu     sync.RWMutex
	state  State
	seq    uint64
	subs   map[int]func(Event)
	nextID int
}

func NewStore(api API) *Store {
	return &Store{
		api:  api,
		subs: make(map[int]func(Event)),
	}
}

// State копия текущего состояния.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Transactions = slices.Clone(s.state.Transactions)
	return st
}

// update применяет mutate под блокировкой и уведомляет подписчиков.
func (s *Store) update(action string, mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.state.Loading = s.state.InFlight > 0
	s.seq++
	event := Event{Seq: s.seq, Action: action, State: s.state}
	event.State.Transactions = slices.Clone(s.state.Transactions)
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

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

func (s *Store) begin() {
	s.update("balance/requestStarted", func(st *State) { st.InFlight++ })
}

func settle(st *State) {
	if st.InFlight > 0 {
		st.InFlight--
	}
}

// finish завершает запрос: отменённый отбрасывается, ошибка сохраняется в состоянии.
func (s *Store) finish(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.update("balance/requestAborted", settle)
		return ctxErr
	}
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"op": op}).WithError(err).Warn("balance: операция не выполнена")
		storeErr := &StoreError{Message: apperror.MessageOf(err)}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			storeErr.Code = appErr.Code
		}
		s.update("balance/requestFailed", func(st *State) {
			settle(st)
			st.Error = storeErr
			st.Message = ""
		})
		return err
	}
	return nil
}

// FetchBalance загружает балансы с сервера.
func (s *Store) FetchBalance(ctx context.Context) (*models.UserBalance, error) {
	s.begin()
	balance, err := s.api.GetBalance(ctx)
	if err := s.finish(ctx, "fetchBalance", err); err != nil {
		return nil, err
	}
	s.update("balance/balanceLoaded", func(st *State) {
		settle(st)
		st.Balance = *balance
		st.Loaded = true
		st.Error = nil
	})
	return balance, nil
}

// TransferResult итог перевода средств.
type TransferResult struct {
	// Balance пуст, если перевод выполнен, а новый баланс получить не удалось.
	Balance *models.UserBalance
	Message string
}

const defaultTransferMessage = "Средства переведены в доступные"

// TransferPendingToAvailable переводит ожидающие средства в доступные.
// Новые значения берутся повторным запросом баланса, а не вычисляются локально.
// Если перевод прошёл, а повторный запрос нет, возвращается результат с сообщением
// сервера и ошибка с кодом REFRESH_FAILED. Баланс при этом считается незагруженным.
func (s *Store) TransferPendingToAvailable(ctx context.Context) (*TransferResult, error) {
	// Без загруженного баланса гард проверить нечем
	if !s.State().Loaded {
		if _, err := s.FetchBalance(ctx); err != nil {
			return nil, err
		}
	}
	if pending := s.State().Balance.PendingBalance; !pending.IsPositive() {
		logger.Log.WithField("pending", pending.String()).Warn("balance: перевод без средств в ожидании запрещён")
		return nil, apperror.ErrNothingToTransfer
	}

	s.begin()
	message, err := s.api.TransferPendingToAvailable(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// Исход перевода неизвестен, перед следующим переводом баланс перечитывается
		s.update("balance/requestAborted", func(st *State) {
			settle(st)
			st.Loaded = false
		})
		return nil, ctxErr
	}
	if err := s.finish(ctx, "transferPendingToAvailable", err); err != nil {
		return nil, err
	}
	if message == "" {
		message = defaultTransferMessage
	}

	balance, err := s.api.GetBalance(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.update("balance/requestAborted", func(st *State) {
			settle(st)
			st.Loaded = false
		})
		return nil, ctxErr
	}
	if err != nil {
		refreshErr := apperror.Wrap(err, apperror.ErrCodeRefreshFailed,
			"средства переведены, но баланс не обновлён: "+apperror.MessageOf(err))
		logger.Log.WithError(err).Warn("balance: перевод выполнен, баланс не перечитан")
		s.update("balance/transferredStale", func(st *State) {
			settle(st)
			st.Loaded = false
			st.Message = message
			st.Error = &StoreError{Message: refreshErr.Message, Code: refreshErr.Code}
		})
		return &TransferResult{Message: message}, refreshErr
	}

	s.update("balance/transferred", func(st *State) {
		settle(st)
		st.Balance = *balance
		st.Loaded = true
		st.Error = nil
		st.Message = message
	})
	return &TransferResult{Balance: balance, Message: message}, nil
}

// FetchTransactions загружает журнал операций пользователя.
func (s *Store) FetchTransactions(ctx context.Context) ([]models.Transaction, error) {
	s.begin()
	list, err := s.api.ListMyTransactions(ctx)
	if err := s.finish(ctx, "fetchTransactions", err); err != nil {
		return nil, err
	}
	s.update("balance/transactionsLoaded", func(st *State) {
		settle(st)
		st.Transactions = list
		st.Error = nil
	})
	return list, nil
}

// ExportTransactions пишет кэшированный журнал в XLSX.
func (s *Store) ExportTransactions(w io.Writer) error {
	return export.WriteTransactionsXLSX(w, s.State().Transactions)
}

func (s *Store) ClearError() {
	s.update("balance/errorCleared", func(st *State) { st.Error = nil })
}

func (s *Store) ClearMessage() {
	s.update("balance/messageCleared", func(st *State) { st.Message = "" })
}

// Reset сбрасывает состояние после выхода пользователя.
func (s *Store) Reset() {
	s.update("balance/reset", func(st *State) {
		inFlight := st.InFlight
		*st = State{InFlight: inFlight}
	})
}

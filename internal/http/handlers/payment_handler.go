package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/store/balance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PaymentHandler балансы, перевод ожидающих средств и журнал операций.
type PaymentHandler struct {
	store *balance.Store
	now   func() time.Time
}

func NewPaymentHandler(store *balance.Store) *PaymentHandler {
	return &PaymentHandler{store: store, now: time.Now}
}

// GetBalance GET /api/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	b, err := h.store.FetchBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// TransferPending POST /api/balance/transfer
func (h *PaymentHandler) TransferPending(c *gin.Context) {
	result, err := h.store.TransferPendingToAvailable(c.Request.Context())
	if err != nil && result == nil {
		response.Error(c, err)
		return
	}
	if err != nil {
		// Перевод выполнен, ошибка относится только к обновлению баланса
		response.SuccessWithWarning(c, nil, result.Message, err)
		return
	}
	response.SuccessWithMessage(c, result.Balance, result.Message)
}

// ListTransactions GET /api/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	list, err := h.store.FetchTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ExportTransactions GET /api/transactions/export
// Выгружает загруженный журнал в XLSX. Файл собирается в памяти, чтобы ошибка
// не оборвала уже начатый ответ.
func (h *PaymentHandler) ExportTransactions(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.store.ExportTransactions(&buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/homefix/marketplace-client/internal/domain/valueobject"
	"github.com/homefix/marketplace-client/internal/models"
)

// SheetTransactions имя листа выписки.
const SheetTransactions = "Операции"

var transactionTypeDisplay = map[valueobject.TransactionType]string{
	valueobject.TransactionDeposit:           "Пополнение",
	valueobject.TransactionWithdrawal:        "Вывод",
	valueobject.TransactionEscrowFunding:     "Резервирование",
	valueobject.TransactionEscrowRelease:     "Выплата из резерва",
	valueobject.TransactionDisputeSettlement: "Решение спора",
	valueobject.TransactionServicePayment:    "Оплата услуги",
	valueobject.TransactionServiceRefund:     "Возврат",
}

var transactionHeaders = []string{"ID", "Дата", "Тип", "Сумма", "Валюта", "Отправитель", "Получатель", "Заказ", "Спор", "Описание"}

// TransactionTypeDisplay человекочитаемое название типа операции.
func TransactionTypeDisplay(t valueobject.TransactionType) string {
	if name, ok := transactionTypeDisplay[t]; ok {
		return name
	}
	return string(t)
}

// WriteTransactionsXLSX пишет выписку по операциям в формате XLSX.
func WriteTransactionsXLSX(w io.Writer, transactions []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetTransactions)
	if err != nil {
		return fmt.Errorf("export: не удалось создать лист: %w", err)
	}
	// Удаляем стандартный лист
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: не удалось удалить стандартный лист: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range transactionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetTransactions, cell, header); err != nil {
			return fmt.Errorf("export: заголовок %s: %w", header, err)
		}
	}

	for i, tx := range transactions {
		row := i + 2
		values := []any{
			tx.ID,
			tx.Timestamp.Format("02.01.2006 15:04"),
			TransactionTypeDisplay(tx.TransactionType),
			tx.Amount.Float64(),
			tx.Currency,
			tx.SenderUser.DisplayName(),
			tx.ReceiverUser.DisplayName(),
			optionalID(tx.OrderID),
			optionalID(tx.DisputeID),
			tx.Description,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetTransactions, cell, value); err != nil {
				return fmt.Errorf("export: строка %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: не удалось записать файл: %w", err)
	}
	return nil
}

func optionalID(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}

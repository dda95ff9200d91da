package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/homefix/marketplace-client/internal/pkg/apperror"
)

// Верхние границы полей. Обязательность полей проверяет сервер.
const (
	MaxProblemDescriptionLength = 5000
	MaxLocationLength           = 255
	MaxOfferDescriptionLength   = 2000
	MaxCancellationReasonLength = 1000
	MaxDisputeArgumentLength    = 5000
	MaxAdminNotesLength         = 5000
)

// ValidateLength проверяет длину строки в символах. Граница 0 не проверяется.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s должно быть не короче %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s должно быть не длиннее %d символов", fieldName, max))
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая после обрезки пробелов.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("поле %s обязательно", fieldName))
	}
	return nil
}

// ValidateOrderText проверяет описание проблемы и адрес заказа.
func ValidateOrderText(description, location string) error {
	if err := ValidateLength("описание проблемы", description, 0, MaxProblemDescriptionLength); err != nil {
		return err
	}
	return ValidateLength("адрес", location, 0, MaxLocationLength)
}

// ValidateOfferDescription проверяет текст предложения.
func ValidateOfferDescription(description string) error {
	return ValidateLength("описание предложения", description, 0, MaxOfferDescriptionLength)
}

// ValidateCancellationReason проверяет причину отмены заказа.
func ValidateCancellationReason(reason string) error {
	return ValidateLength("причина отмены", reason, 0, MaxCancellationReasonLength)
}

// ValidateDisputeArgument проверяет аргумент спора: он обязателен и ограничен по длине.
func ValidateDisputeArgument(argument string) error {
	if err := ValidateNonEmpty("причина спора", argument); err != nil {
		return err
	}
	return ValidateLength("причина спора", argument, 0, MaxDisputeArgumentLength)
}

// ValidateAdminNotes проверяет комментарий администратора к решению спора.
func ValidateAdminNotes(notes string) error {
	return ValidateLength("комментарий администратора", notes, 0, MaxAdminNotesLength)
}

package dto

import "github.com/homefix/marketplace-client/internal/models"

// Page страница списка в формате REST API.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ErrorResponse единая схема ошибки REST API.
// Поле detail обязательно, fields заполняется при ошибках валидации.
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Code   string              `json:"code,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// DisputeResponse ответ эндпоинтов спора: сам спор и заказ после изменения статуса.
type DisputeResponse struct {
	Dispute models.Dispute `json:"dispute"`
	Order   *models.Order  `json:"order,omitempty"`
}

// MessageResponse ответ операций без сущности в теле.
type MessageResponse struct {
	Detail string `json:"detail"`
}

package clientstate

import "context"

// Storage хранит строковые значения клиента по ключу в рамках одного профиля.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

package clientstate

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// FileStorage хранит состояние профиля в JSON файле.
// При заданном ключе файл шифруется secretbox.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	key    *[32]byte
	values map[string]string
}

// NewFileStorage открывает (или создаёт при первой записи) файл профиля в каталоге dir.
// secret пустой или ровно 32 байта.
func NewFileStorage(dir, profile, secret string) (*FileStorage, error) {
	if profile == "" {
		return nil, fmt.Errorf("clientstate: пустой профиль")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("clientstate: не удалось создать каталог %s: %w", dir, err)
	}

	st := &FileStorage{
		path:   filepath.Join(dir, profile+".json"),
		values: make(map[string]string),
	}

	if secret != "" {
		if len(secret) != 32 {
			return nil, fmt.Errorf("clientstate: ключ шифрования должен быть 32 байта")
		}
		var key [32]byte
		copy(key[:], secret)
		st.key = &key
	}

	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *FileStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *FileStorage) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clientstate: не удалось прочитать %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	if s.key != nil {
		raw, err = s.open(raw)
		if err != nil {
			return err
		}
	}

	if err := json.Unmarshal(raw, &s.values); err != nil {
		return fmt.Errorf("clientstate: повреждён файл состояния %s: %w", s.path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return nil
}

// flush пишет файл целиком через временный файл и rename.
func (s *FileStorage) flush() error {
	raw, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("clientstate: не удалось сериализовать состояние: %w", err)
	}

	if s.key != nil {
		raw, err = s.seal(raw)
		if err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("clientstate: не удалось записать %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("clientstate: не удалось заменить %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStorage) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("clientstate: не удалось сгенерировать nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, s.key), nil
}

func (s *FileStorage) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("clientstate: зашифрованный файл %s слишком короткий", s.path)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, fmt.Errorf("clientstate: не удалось расшифровать %s, проверьте CLIENT_STATE_SECRET", s.path)
	}
	return plain, nil
}

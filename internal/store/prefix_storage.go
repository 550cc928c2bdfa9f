package store

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrSharedStorage = errors.New("cannot reset a prefixed view of a shared storage")

// PrefixStorage scopes a shared fiber.Storage to the keys starting with
// prefix. Reset and Close are not forwarded to the shared storage.
type PrefixStorage struct {
	storage fiber.Storage
	prefix  string
}

func (s *PrefixStorage) Get(key string) ([]byte, error) {
	return s.storage.Get(s.prefix + key)
}

func (s *PrefixStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.storage.Set(s.prefix+key, val, exp)
}

func (s *PrefixStorage) Delete(key string) error {
	return s.storage.Delete(s.prefix + key)
}

func (s *PrefixStorage) Reset() error {
	return ErrSharedStorage
}

func (s *PrefixStorage) Close() error {
	return nil
}

func NewPrefixStorage(storage fiber.Storage, prefix string) *PrefixStorage {
	return &PrefixStorage{
		storage: storage,
		prefix:  prefix,
	}
}

package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
)

// GobStore keeps gob encoded values in any fiber.Storage.
type GobStore[T any] struct {
	storage fiber.Storage
}

func (s *GobStore[T]) Get(ctx context.Context, key string) (*T, error) {
	blob, err := s.storage.Get(key)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, ErrNotFound
	}

	var obj T
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (s *GobStore[T]) Set(ctx context.Context, key string, val T, expiresIn time.Duration) error {
	var blob bytes.Buffer
	if err := gob.NewEncoder(&blob).Encode(val); err != nil {
		return err
	}
	return s.storage.Set(key, blob.Bytes(), expiresIn)
}

func (s *GobStore[T]) Del(ctx context.Context, key string) error {
	return s.storage.Delete(key)
}

func NewGobStore[T any](storage fiber.Storage) *GobStore[T] {
	return &GobStore[T]{storage: storage}
}

// NewMemoryStore returns a GobStore backed by its own in-process storage.
func NewMemoryStore[T any]() *GobStore[T] {
	return NewGobStore[T](memory.New(memory.Config{GCInterval: 10 * time.Second}))
}

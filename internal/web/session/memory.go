package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	gocache "github.com/patrickmn/go-cache"
)

var _ fiber.Storage = (*MemoryStorage)(nil)

// MemoryStorage is a process local fiber.Storage, used with the sqlite engine and in tests.
type MemoryStorage struct {
	c *gocache.Cache
}

// NewMemoryStorage creates an empty storage. Expired entries are purged every minute.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

// Get returns nil for unknown keys.
func (m *MemoryStorage) Get(key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}

	b, _ := v.([]byte)

	return b, nil
}

// Set stores val. A zero exp never expires.
func (m *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if exp <= 0 {
		exp = gocache.NoExpiration
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	m.c.Set(key, buf, exp)

	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryStorage) Reset() error {
	m.c.Flush()
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"moda-store/models"

	"github.com/redis/go-redis/v9"
)

// SessionStore holds the two independent keyed slots the storefront
// persists between visits: the cart lines and the shipping address. Both
// are JSON blobs; a missing or corrupt slot reads as absent, never as an
// error to the caller.
type SessionStore interface {
	LoadCart(ctx context.Context, key string) ([]models.CartLine, error)
	SaveCart(ctx context.Context, key string, lines []models.CartLine) error
	LoadAddress(ctx context.Context, key string) (*models.ShippingAddress, error)
	SaveAddress(ctx context.Context, key string, addr *models.ShippingAddress) error
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func cartKey(key string) string    { return "cart:" + key }
func addressKey(key string) string { return "address:" + key }

func (s *RedisSessionStore) LoadCart(ctx context.Context, key string) ([]models.CartLine, error) {
	if s.client == nil {
		return []models.CartLine{}, nil
	}

	raw, err := s.client.Get(ctx, cartKey(key)).Result()
	if err != nil {
		return []models.CartLine{}, nil
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []models.CartLine{}, nil
	}
	return lines, nil
}

func (s *RedisSessionStore) SaveCart(ctx context.Context, key string, lines []models.CartLine) error {
	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(key), data, 0).Err()
}

func (s *RedisSessionStore) LoadAddress(ctx context.Context, key string) (*models.ShippingAddress, error) {
	if s.client == nil {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, addressKey(key)).Result()
	if err != nil {
		return nil, nil
	}

	var addr models.ShippingAddress
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return nil, nil
	}
	return &addr, nil
}

func (s *RedisSessionStore) SaveAddress(ctx context.Context, key string, addr *models.ShippingAddress) error {
	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, addressKey(key), data, 0).Err()
}

// MemorySessionStore backs the slots when Redis is not configured. Carts
// then live only as long as the process, matching the "running without
// cache" degradation used elsewhere.
type MemorySessionStore struct {
	mu        sync.RWMutex
	carts     map[string][]models.CartLine
	addresses map[string]models.ShippingAddress
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		carts:     make(map[string][]models.CartLine),
		addresses: make(map[string]models.ShippingAddress),
	}
}

func (s *MemorySessionStore) LoadCart(_ context.Context, key string) ([]models.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]models.CartLine, len(s.carts[key]))
	copy(lines, s.carts[key])
	return lines, nil
}

func (s *MemorySessionStore) SaveCart(_ context.Context, key string, lines []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]models.CartLine, len(lines))
	copy(saved, lines)
	s.carts[key] = saved
	return nil
}

func (s *MemorySessionStore) LoadAddress(_ context.Context, key string) (*models.ShippingAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr, ok := s.addresses[key]
	if !ok {
		return nil, nil
	}
	return &addr, nil
}

func (s *MemorySessionStore) SaveAddress(_ context.Context, key string, addr *models.ShippingAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[key] = *addr
	return nil
}

package preferences

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/spec-kit/ticket-board/internal/config"
	"github.com/spec-kit/ticket-board/internal/persistence"
	"github.com/spec-kit/ticket-board/internal/repository"
)

// Persisted preference keys.
const (
	KeyDarkMode = "isDarkMode"
	KeyGrouping = "selectedFilter"
	KeyOrdering = "orderingFilter"
)

// Store is a durable string key/value store. Get reports absent keys with ok=false.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Lister is implemented by stores that can return every key of the profile in
// one read. Adapter.Load prefers it over per-key Gets.
type Lister interface {
	All(ctx context.Context) (map[string]string, error)
}

// Open builds the Store selected by cfg.Backend.
func Open(cfg config.PreferencesConfig, rdb *persistence.Redis, pg *persistence.Postgres) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.FilePath, cfg.Profile), nil
	case config.BackendRedis:
		if !rdb.Enabled() {
			return nil, fmt.Errorf("redis backend selected but redis is not configured")
		}
		return NewRedisStore(rdb.Client, cfg.Profile), nil
	case config.BackendPostgres:
		if !pg.Enabled() {
			return nil, fmt.Errorf("postgres backend selected but postgres is not configured")
		}
		return NewPostgresStore(repository.NewPreferenceRepository(pg.PoolHandle()), cfg.Profile), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown preferences backend %q", cfg.Backend)
	}
}

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) All(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values), nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

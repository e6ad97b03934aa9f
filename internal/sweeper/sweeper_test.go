package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
	"github.com/hammamikhairi/ottoshop/internal/storage"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *storage.MemoryStore, id string, idle time.Duration) {
	t.Helper()
	conv := &domain.Conversation{ID: id, StartedAt: now.Add(-idle), UpdatedAt: now.Add(-idle)}
	if err := store.Save(context.Background(), conv); err != nil {
		t.Fatalf("seeding %s: %v", id, err)
	}
}

func TestSweepEvictsIdle(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	seed(t, store, "fresh", 5*time.Minute)
	seed(t, store, "edge", time.Hour)
	seed(t, store, "stale", 3*time.Hour)
	seed(t, store, "ancient", 48*time.Hour)

	var evicted []string
	s := New(store, log,
		WithTTL(time.Hour),
		WithClock(func() time.Time { return now }),
		OnEvict(func(id string) { evicted = append(evicted, id) }),
	)

	if n := s.Sweep(ctx); n != 2 {
		t.Fatalf("Sweep evicted %d, want 2", n)
	}
	if len(evicted) != 2 {
		t.Fatalf("OnEvict called for %v, want 2 ids", evicted)
	}

	for _, id := range []string{"fresh", "edge"} {
		if _, err := store.Load(ctx, id); err != nil {
			t.Errorf("%s should survive: %v", id, err)
		}
	}
	for _, id := range []string{"stale", "ancient"} {
		if _, err := store.Load(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s should be evicted, got %v", id, err)
		}
	}

	if n := s.Sweep(ctx); n != 0 {
		t.Errorf("second Sweep evicted %d, want 0", n)
	}
}

// countingStore records List calls so the loop can be observed.
type countingStore struct {
	*storage.MemoryStore
	mu    sync.Mutex
	lists int
}

func (c *countingStore) List(ctx context.Context) ([]*domain.Conversation, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.MemoryStore.List(ctx)
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

func TestStartStop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := &countingStore{MemoryStore: storage.NewMemoryStore(log)}

	s := New(store, log, WithInterval(10*time.Millisecond))
	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op

	deadline := time.Now().Add(2 * time.Second)
	for store.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper loop did not run")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	after := store.count()
	time.Sleep(50 * time.Millisecond)
	if store.count() != after {
		t.Errorf("sweeper kept running after Stop")
	}
	s.Stop() // stopping twice is safe
}

// Package storage provides conversation storage implementations.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.ConversationStore = (*MemoryStore)(nil)

// MemoryStore keeps conversations for the life of the process. It stores
// and hands out copies. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*domain.Conversation
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		convs: make(map[string]*domain.Conversation),
		log:   log,
	}
}

// Save stores a conversation, overwriting any previous version.
func (s *MemoryStore) Save(ctx context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving conversation %s (stage=%s, basket=%d)", conv.ID, conv.Stage, len(conv.Basket))
	s.convs[conv.ID] = conv.Clone()
	return nil
}

// Load retrieves a conversation by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[id]
	if !ok {
		s.log.Debug("conversation not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return conv.Clone(), nil
}

// Delete removes a conversation by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.convs, id)
	s.log.Debug("deleted conversation %s", id)
	return nil
}

// List returns every conversation, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	s.log.Debug("listing conversations, count=%d", len(out))
	return out, nil
}

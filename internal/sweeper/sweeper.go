// Package sweeper evicts conversations that have sat idle too long, so a
// long-running server does not keep every conversation it ever saw.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Option configures the sweeper.
type Option func(*Sweeper)

// WithInterval sets how often the sweeper checks the store.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) { s.interval = d }
}

// WithTTL sets how long a conversation may go without a turn.
func WithTTL(d time.Duration) Option {
	return func(s *Sweeper) { s.ttl = d }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// OnEvict registers a callback run after each eviction.
func OnEvict(fn func(id string)) Option {
	return func(s *Sweeper) { s.onEvict = fn }
}

// Sweeper runs in the background and deletes idle conversations.
type Sweeper struct {
	store    domain.ConversationStore
	log      *logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(id string)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a sweeper over store.
func New(store domain.ConversationStore, log *logger.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		log:      log,
		interval: time.Minute,
		ttl:      2 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("sweeper already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(childCtx, s.done)
	s.log.Info("sweeper started (interval=%s, ttl=%s)", s.interval, s.ttl)
}

// Stop shuts the loop down and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns how many conversations it evicted.
func (s *Sweeper) Sweep(ctx context.Context) int {
	convs, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("sweeper: listing conversations: %v", err)
		return 0
	}

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for _, c := range convs {
		if !c.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, c.ID); err != nil {
			s.log.Warn("sweeper: deleting %s: %v", c.ID, err)
			continue
		}
		evicted++
		if s.onEvict != nil {
			s.onEvict(c.ID)
		}
		s.log.Debug("sweeper: evicted %s (%s, idle since %s)", c.ID, c.Stage, c.UpdatedAt.Format(time.RFC3339))
	}

	if evicted > 0 {
		s.log.Info("sweeper: evicted %d idle conversation(s)", evicted)
	}
	return evicted
}

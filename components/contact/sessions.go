package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/form"
)

var (
	errSessionsClosed = errors.New("contact: sessions closed")
	errSessionsFull   = errors.New("contact: session limit reached")
)

type session struct {
	id   string
	inst *form.Instance
	seen time.Time
}

// sessions maps cookie ids to live form instances.
type sessions struct {
	mu     sync.Mutex
	items  map[string]*session
	closed bool

	ttl    time.Duration
	limit  int
	now    func() time.Time
	build  func() *form.Instance
	logger *zap.Logger
}

func newSessions(ttl time.Duration, limit int, now func() time.Time, build func() *form.Instance, logger *zap.Logger) *sessions {
	return &sessions{
		items:  map[string]*session{},
		ttl:    ttl,
		limit:  limit,
		now:    now,
		build:  build,
		logger: logger,
	}
}

// lookup returns the live session for id and refreshes it. It never creates
// one, so page views by new visitors allocate nothing.
func (s *sessions) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionsClosed
	}
	return s.live(id, s.now()), nil
}

// acquire returns the live session for id, or a fresh one when id is unknown,
// malformed, or expired. created reports whether a new id was issued.
func (s *sessions) acquire(id string) (sess *session, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, errSessionsClosed
	}

	now := s.now()
	if existing := s.live(id, now); existing != nil {
		return existing, false, nil
	}
	if s.limit > 0 && len(s.items) >= s.limit {
		s.sweep(now)
		if len(s.items) >= s.limit {
			return nil, false, errSessionsFull
		}
	}

	sess = &session{id: uuid.NewString(), inst: s.build(), seen: now}
	s.items[sess.id] = sess
	s.logger.Debug("contact session opened", zap.String("session", sess.id))
	return sess, true, nil
}

// Sweep closes every session idle for longer than the TTL and reports how
// many were removed.
func (s *sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(s.now())
}

// live must be called with s.mu held. Expired sessions are dropped.
func (s *sessions) live(id string, now time.Time) *session {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	existing, ok := s.items[id]
	if !ok {
		return nil
	}
	if s.expired(existing, now) {
		s.drop(existing)
		return nil
	}
	existing.seen = now
	return existing
}

// sweep must be called with s.mu held.
func (s *sessions) sweep(now time.Time) int {
	removed := 0
	for _, sess := range s.items {
		if s.expired(sess, now) {
			s.drop(sess)
			removed++
		}
	}
	return removed
}

func (s *sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// run sweeps on every tick until ctx is done.
func (s *sessions) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("contact sessions expired", zap.Int("count", n))
			}
		}
	}
}

func (s *sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, sess := range s.items {
		if err := sess.inst.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(s.items, sess.id)
	}
	return errors.Join(errs...)
}

func (s *sessions) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.seen) > s.ttl
}

// drop must be called with s.mu held.
func (s *sessions) drop(sess *session) {
	delete(s.items, sess.id)
	if err := sess.inst.Close(); err != nil {
		s.logger.Warn("contact session close failed", zap.String("session", sess.id), zap.Error(err))
	}
	s.logger.Debug("contact session closed", zap.String("session", sess.id))
}

package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory with time-based eviction.
// Sessions are independent across users; the map mutex only guards the
// lookup, the per-session mutex guards a whole turn.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxAge   time.Duration
	now      func() time.Time
	log      *slog.Logger
}

func NewMemoryStore(maxAge time.Duration, log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
		now:      time.Now,
		log:      log,
	}
}

// SetClock injects a clock, used by tests to drive eviction.
func (st *MemoryStore) SetClock(now func() time.Time) {
	st.now = now
}

// Get returns the session for userID, creating it on first contact.
// An expired session is discarded and replaced, so eviction also happens
// lazily on access. LastActivity is refreshed on every call.
func (st *MemoryStore) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s, ok := st.sessions[userID]
	if ok && now.Sub(s.LastActivity) > st.maxAge {
		delete(st.sessions, userID)
		ok = false
	}
	if !ok {
		s = NewSession(userID, now)
		st.sessions[userID] = s
	}
	s.Touch(now)
	return s
}

// Reset drops the user's session; the next message starts over.
func (st *MemoryStore) Reset(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}

// Len reports the number of live sessions.
func (st *MemoryStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// EvictExpired removes every session idle longer than maxAge and returns
// how many were dropped. Sessions touched during the sweep are skipped.
func (st *MemoryStore) EvictExpired() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	evicted := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastActivity) > st.maxAge {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs the periodic eviction loop until ctx is cancelled.
func (st *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.EvictExpired(); n > 0 && st.log != nil {
					st.log.Debug("session store: evicted expired sessions", slog.Int("count", n))
				}
			}
		}
	}()
}

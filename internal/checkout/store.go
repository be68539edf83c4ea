package checkout

import (
	"sync"
	"time"

	"eventwave/internal/domain"
)

// Store holds live checkout sessions in memory. Sessions are short-lived
// and fully independent of each other; idle ones are evicted by a background
// sweeper after the configured TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration

	stopOnce sync.Once
	stop     chan struct{}

	// OnCountChange is invoked with the live session count after every
	// mutation, used to feed the active-sessions gauge.
	OnCountChange func(n int)
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID()] = s
	n := len(st.sessions)
	st.mu.Unlock()
	st.notify(n)
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "checkout session"}
	}
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	st.notify(n)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweeper evicts expired sessions every interval until Close is called.
func (st *Store) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.sweep(time.Now())
			case <-st.stop:
				return
			}
		}
	}()
}

func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.stop) })
}

func (st *Store) sweep(now time.Time) {
	st.mu.RLock()
	expired := []string{}
	for id, s := range st.sessions {
		if s.expired(st.ttl, now) {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	if len(expired) == 0 {
		return
	}
	st.mu.Lock()
	for _, id := range expired {
		delete(st.sessions, id)
	}
	n := len(st.sessions)
	st.mu.Unlock()
	st.notify(n)
}

func (st *Store) notify(n int) {
	if st.OnCountChange != nil {
		st.OnCountChange(n)
	}
}

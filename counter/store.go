package counter

import (
	"sync"
	"time"
)

type entry struct {
	count     int
	expiredAt time.Time
}

// Store is a per-key counter with lazy expiry.
// Expired entries are dropped on access, there is no background sweep.
type Store struct {
	window time.Duration
	store  map[string]entry
	lock   *sync.Mutex
}

func NewStore(window time.Duration) *Store {
	return &Store{
		window: window,
		store:  map[string]entry{},
		lock:   &sync.Mutex{},
	}
}

// Increment adds 1 to the key's counter and refreshes its lifetime.
// An absent or expired key starts over from 1.
func (s *Store) Increment(key string) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	e, ok := s.store[key]
	if !ok || now.After(e.expiredAt) {
		s.store[key] = entry{count: 1, expiredAt: now.Add(s.window)}
		return 1
	}

	e.count++
	e.expiredAt = now.Add(s.window)
	s.store[key] = e
	return e.count
}

// Decrement subtracts 1 keeping the remaining lifetime.
// The key is deleted instead of being kept at zero.
func (s *Store) Decrement(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	e, ok := s.store[key]
	if !ok {
		return
	}
	if s.now().After(e.expiredAt) || e.count <= 1 {
		delete(s.store, key)
		return
	}

	e.count--
	s.store[key] = e
}

func (s *Store) Get(key string) (int, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	e, ok := s.store[key]
	if !ok {
		return 0, false
	}
	if s.now().After(e.expiredAt) {
		delete(s.store, key)
		return 0, false
	}

	return e.count, true
}

func (s *Store) now() time.Time {
	return time.Now()
}

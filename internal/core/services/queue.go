package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// nameQueue serialises work per database name. Each name has a weight-1
// semaphore, so callers for the same name run one at a time in arrival
// order while different names never contend. Slots are reference counted
// and dropped when no caller holds or waits for them.
type nameQueue struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  *semaphore.Weighted
	refs int
}

func newNameQueue() *nameQueue {
	return &nameQueue{slots: make(map[string]*slot)}
}

// acquire waits for exclusive use of name. The returned release function
// is safe to call more than once.
func (q *nameQueue) acquire(ctx context.Context, name string) (func(), error) {
	q.mu.Lock()
	s, ok := q.slots[name]
	if !ok {
		s = &slot{sem: semaphore.NewWeighted(1)}
		q.slots[name] = s
	}
	s.refs++
	q.mu.Unlock()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		q.unref(name, s)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.sem.Release(1)
			q.unref(name, s)
		})
	}, nil
}

func (q *nameQueue) unref(name string, s *slot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(q.slots, name)
	}
}

// size returns the number of names currently held or awaited.
func (q *nameQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slots)
}

package usecase

import "sync"

// quoteLocks hands out one mutex per quote id. Entries are dropped when the
// last holder releases them.
type quoteLocks struct {
	mu    sync.Mutex
	locks map[string]*quoteLock
}

type quoteLock struct {
	sync.Mutex
	refs int
}

func newQuoteLocks() *quoteLocks {
	return &quoteLocks{locks: make(map[string]*quoteLock)}
}

func (l *quoteLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	ql, ok := l.locks[id]
	if !ok {
		ql = &quoteLock{}
		l.locks[id] = ql
	}
	ql.refs++
	l.mu.Unlock()

	ql.Lock()
	return func() {
		ql.Unlock()
		l.mu.Lock()
		ql.refs--
		if ql.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

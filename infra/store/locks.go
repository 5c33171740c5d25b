package store

import "sync"

// collectionLocks hands out one mutex per collection.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *collectionLocks) get(collection string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.locks[collection]; !exists {
		l.locks[collection] = &sync.Mutex{}
	}
	return l.locks[collection]
}

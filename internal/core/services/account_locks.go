package services

import (
	"sort"
	"sync"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// accountLocks serialises mutators touching the same account inside this process.
// Locks are always taken in path order so a transfer A->B and a transfer B->A cannot deadlock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: map[string]*sync.Mutex{}}
}

func (l *accountLocks) lock(refs ...domain.AccountRef) (unlock func()) {
	paths := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		p := ref.Path()
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	held := make([]*sync.Mutex, 0, len(paths))
	for _, p := range paths {
		m := l.get(p)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (l *accountLocks) get(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[path]
	if !ok {
		m = &sync.Mutex{}
		l.locks[path] = m
	}
	return m
}

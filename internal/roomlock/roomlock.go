// Package roomlock serializes command handling per room. Each inbound event
// is handled to completion before the next one for the same room; different
// rooms proceed concurrently.
package roomlock

import (
	"sync"

	"github.com/soundround/soundround/internal/model"
)

// Locker hands out one mutex per room id. Locks are never reclaimed; rooms
// are short-lived and the per-entry cost is a mutex.
type Locker struct {
	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

// New creates a new Locker
func New() *Locker {
	return &Locker{locks: make(map[model.RoomID]*sync.Mutex)}
}

// Lock acquires the room's mutex and returns the unlock func.
//
//	defer locks.Lock(roomID)()
func (l *Locker) Lock(id model.RoomID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

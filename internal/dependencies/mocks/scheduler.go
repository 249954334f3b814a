package mocks

import (
	"sync"
	"time"

	"github.com/soundround/soundround/internal/dependencies/scheduler"
)

// MockScheduler is a mock implementation of Scheduler for testing. Scheduled
// tasks never fire on their own; tests trigger them with Fire or FireAll.
type MockScheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[int]*mockTask
}

type mockTask struct {
	delay     time.Duration
	fn        func()
	fired     bool
	cancelled bool
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{tasks: make(map[int]*mockTask)}
}

// Schedule records the task and returns a cancel func that reports whether
// it beat the (test-triggered) firing.
func (s *MockScheduler) Schedule(d time.Duration, fn func()) scheduler.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.tasks[id] = &mockTask{delay: d, fn: fn}
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		t, ok := s.tasks[id]
		if !ok || t.fired || t.cancelled {
			return false
		}
		t.cancelled = true
		return true
	}
}

// Pending returns the number of tasks that are neither fired nor cancelled.
func (s *MockScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// FireAll runs every pending task, including tasks scheduled by the tasks it
// runs. Cancelled tasks stay silent.
func (s *MockScheduler) FireAll() {
	for {
		fn := s.takeNext(false)
		if fn == nil {
			return
		}
		fn()
	}
}

// FireAllIgnoringCancel runs every task regardless of cancellation, to
// exercise the race where a timer fires concurrently with its cancellation.
func (s *MockScheduler) FireAllIgnoringCancel() {
	for {
		fn := s.takeNext(true)
		if fn == nil {
			return
		}
		fn()
	}
}

func (s *MockScheduler) takeNext(ignoreCancel bool) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.fired || (t.cancelled && !ignoreCancel) {
			continue
		}
		t.fired = true
		return t.fn
	}
	return nil
}

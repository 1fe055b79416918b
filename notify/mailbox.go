package notify

import (
	"sync"
	"time"

	"github.com/moyoez/progress-uploader/types"
)

// Mailbox hands task events to a slow consumer without ever blocking the
// producer. It holds at most one event per task: a newer snapshot replaces
// the one still waiting, so a stalled consumer sees each task's latest state
// once it catches up.
type Mailbox struct {
	mu      sync.Mutex
	pending map[string]types.TaskEvent
	order   []string
	closed  bool

	wake    chan struct{}
	stopped chan struct{}
}

// NewMailbox starts a goroutine that passes queued events to deliver, in the
// order their tasks first showed up.
func NewMailbox(deliver func(types.TaskEvent)) *Mailbox {
	m := &Mailbox{
		pending: make(map[string]types.TaskEvent),
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go m.loop(deliver)
	return m
}

// Push queues event, replacing an undelivered event of the same task. It
// reports false once the mailbox is closed.
func (m *Mailbox) Push(event types.TaskEvent) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	if _, ok := m.pending[event.TaskID]; !ok {
		m.order = append(m.order, event.TaskID)
	}
	m.pending[event.TaskID] = event
	m.mu.Unlock()

	m.signal()
	return true
}

// Len returns the number of tasks with an undelivered event.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Close stops accepting events and waits up to timeout for the queued ones
// to be delivered. It reports whether the consumer finished in time.
func (m *Mailbox) Close(timeout time.Duration) bool {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()

	select {
	case <-m.stopped:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m *Mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Mailbox) take() ([]types.TaskEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]types.TaskEvent, 0, len(m.order))
	for _, id := range m.order {
		batch = append(batch, m.pending[id])
	}
	clear(m.pending)
	m.order = m.order[:0]
	return batch, m.closed
}

func (m *Mailbox) loop(deliver func(types.TaskEvent)) {
	defer close(m.stopped)
	for range m.wake {
		for {
			batch, closed := m.take()
			for _, event := range batch {
				deliver(event)
			}
			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
		}
	}
}

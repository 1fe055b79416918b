package transfer

import (
	"sync"

	"github.com/moyoez/progress-uploader/types"
)

// Queue is the set of files accepted for upload during one session. Entries
// are never removed, so a file that finished, failed or was cancelled still
// counts as a duplicate until the session is replaced.
type Queue struct {
	mu      sync.RWMutex
	entries map[types.FileKey]struct{}
}

func NewQueue() *Queue {
	return &Queue{
		entries: make(map[types.FileKey]struct{}),
	}
}

// Contains reports whether a file with this name and size was already accepted.
func (q *Queue) Contains(name string, size int64) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	_, ok := q.entries[types.FileKey{Name: name, Size: size}]
	return ok
}

// Add records an accepted file.
func (q *Queue) Add(file types.FileDescriptor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[file.Key()] = struct{}{}
}

// Len returns the number of accepted files.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

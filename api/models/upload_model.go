package models

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/progress-uploader/transfer"
	"github.com/moyoez/progress-uploader/types"
)

// TaskRegistry keeps the latest snapshot of every task the agent has run, for
// the listing endpoints. Entries expire after the configured retention. It
// implements types.ProgressPresenter.
type TaskRegistry struct {
	mu        sync.Mutex
	snapshots *ttlworker.Cache[string, types.TaskEvent]
	handles   *ttlworker.Cache[string, *transfer.Task]
	order     []string
	known     map[string]struct{}
}

func NewTaskRegistry(retention time.Duration) *TaskRegistry {
	return &TaskRegistry{
		snapshots: ttlworker.NewCache[string, types.TaskEvent](retention),
		handles:   ttlworker.NewCache[string, *transfer.Task](retention),
		known:     make(map[string]struct{}),
	}
}

// Present records event as the task's latest snapshot.
func (r *TaskRegistry) Present(event types.TaskEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.known[event.TaskID]; !ok {
		r.known[event.TaskID] = struct{}{}
		r.order = append(r.order, event.TaskID)
	}
	r.snapshots.Set(event.TaskID, event)
}

// Track keeps task handles so they can still be cancelled after a session reset.
func (r *TaskRegistry) Track(tasks ...*transfer.Task) {
	for _, task := range tasks {
		r.handles.Set(task.ID(), task)
	}
}

// Lookup returns the task handle with the given id.
func (r *TaskRegistry) Lookup(id string) (*transfer.Task, bool) {
	task := r.handles.Get(id)
	return task, task != nil
}

// Get returns the latest snapshot of a task.
func (r *TaskRegistry) Get(id string) (types.TaskEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event := r.snapshots.Get(id)
	return event, event.TaskID != ""
}

// List returns every retained snapshot in submission order, dropping expired ids.
func (r *TaskRegistry) List() []types.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.TaskEvent, 0, len(r.order))
	kept := r.order[:0]
	for _, id := range r.order {
		event := r.snapshots.Get(id)
		if event.TaskID == "" {
			delete(r.known, id)
			continue
		}
		kept = append(kept, id)
		out = append(out, event)
	}
	r.order = kept
	return out
}

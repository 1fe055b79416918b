package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// Options configures a Coordinator.
type Options struct {
	// Endpoint is the AJAX upload URL, see tool.BuildAjaxUploadURL.
	Endpoint string
	// UID is sent as the "uid" form field with every file.
	UID string
	// Transport defaults to an HTTPTransport on tool.GetHttpClient().
	Transport Transport
	// Presenter receives every task event; nil discards them.
	Presenter types.ProgressPresenter
	// ProgressInterval throttles progress events per task; zero uses
	// DefaultProgressInterval, a negative value disables throttling.
	ProgressInterval time.Duration
}

// Coordinator accepts batches of selected files and supervises one Task per
// file. It owns the session's upload queue. Tasks run concurrently without
// any cap; every accepted file starts transferring as soon as it is checked.
type Coordinator struct {
	sessionID        string
	request          TransferRequest
	transport        Transport
	presenter        types.ProgressPresenter
	progressInterval time.Duration

	queue *Queue
	// acceptMu makes check-then-add on the queue atomic across batches.
	acceptMu sync.Mutex

	tasksMu sync.RWMutex
	tasks   map[string]*Task
	order   []*Task
}

// Batch is the set of tasks created by one Submit call, in selection order.
type Batch struct {
	ID    string
	Tasks []*Task
}

func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	interval := opts.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}
	return &Coordinator{
		sessionID: tool.GenerateRandomUUID(),
		request: TransferRequest{
			Endpoint:  opts.Endpoint,
			Fields:    []FormField{{Name: FieldUID, Value: opts.UID}},
			FileField: FieldFile,
		},
		transport:        transport,
		presenter:        opts.Presenter,
		progressInterval: interval,
		queue:            NewQueue(),
		tasks:            make(map[string]*Task),
	}, nil
}

// SessionID identifies the coordinator's queue; a new coordinator is a new session.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// Queue exposes the session's upload queue for inspection.
func (c *Coordinator) Queue() *Queue {
	return c.queue
}

// Submit creates and starts one task per file. Files are checked in order, so
// of two identical files in one batch the second is skipped as a duplicate.
// Submit returns once every task is either skipped or transferring; ctx
// cancellation aborts the transfers still running.
func (c *Coordinator) Submit(ctx context.Context, files []types.FileDescriptor) *Batch {
	batch := &Batch{
		ID:    tool.GenerateShortID(),
		Tasks: make([]*Task, 0, len(files)),
	}
	tool.DefaultLogger.Infof("[Upload] Batch %s: %d file(s) selected", batch.ID, len(files))

	for i, file := range files {
		task := newTask(taskParams{
			batchID:          batch.ID,
			index:            i,
			file:             file,
			request:          c.request,
			transport:        c.transport,
			presenter:        c.presenter,
			progressInterval: c.progressInterval,
		})
		c.register(task)
		batch.Tasks = append(batch.Tasks, task)
		task.announce()

		if reason := c.accept(file); reason != types.Accepted {
			task.skip(reason)
			continue
		}
		task.start(ctx)
	}
	return batch
}

// accept validates file and records it in the queue when it passes.
func (c *Coordinator) accept(file types.FileDescriptor) types.Rejection {
	c.acceptMu.Lock()
	defer c.acceptMu.Unlock()
	if reason := Validate(file, c.queue); reason != types.Accepted {
		return reason
	}
	c.queue.Add(file)
	return types.Accepted
}

func (c *Coordinator) register(task *Task) {
	c.tasksMu.Lock()
	defer c.tasksMu.Unlock()
	c.tasks[task.ID()] = task
	c.order = append(c.order, task)
}

// Task looks up a task of this session by id.
func (c *Coordinator) Task(id string) (*Task, bool) {
	c.tasksMu.RLock()
	defer c.tasksMu.RUnlock()
	task, ok := c.tasks[id]
	return task, ok
}

// Tasks returns every task of this session in submission order.
func (c *Coordinator) Tasks() []*Task {
	c.tasksMu.RLock()
	defer c.tasksMu.RUnlock()
	out := make([]*Task, len(c.order))
	copy(out, c.order)
	return out
}

// Cancel aborts one task; siblings are not affected.
func (c *Coordinator) Cancel(id string) error {
	task, ok := c.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	return task.Cancel()
}

// CancelAll aborts every task in progress and returns how many were cancelled.
// Files a concurrent Submit has not started yet are aborted through its ctx.
func (c *Coordinator) CancelAll() int {
	n := 0
	for _, task := range c.Tasks() {
		if err := task.Cancel(); err == nil {
			n++
		}
	}
	return n
}

// Wait blocks until every task of the batch is terminal or ctx is done.
func (b *Batch) Wait(ctx context.Context) ([]types.TaskEvent, error) {
	events := make([]types.TaskEvent, len(b.Tasks))
	for i, task := range b.Tasks {
		event, err := task.Wait(ctx)
		if err != nil {
			return b.Snapshots(), err
		}
		events[i] = event
	}
	return events, nil
}

// Snapshots returns the current state of every task in selection order.
func (b *Batch) Snapshots() []types.TaskEvent {
	events := make([]types.TaskEvent, len(b.Tasks))
	for i, task := range b.Tasks {
		events[i] = task.Snapshot()
	}
	return events
}

// Summary counts the tasks of a batch per status.
func Summary(events []types.TaskEvent) map[types.TaskStatus]int {
	counts := make(map[types.TaskStatus]int)
	for _, event := range events {
		counts[event.Status]++
	}
	return counts
}

package transfer

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// DefaultProgressInterval is the minimum gap between two progress events of
// one task. State changes and the final 100% are never held back.
var DefaultProgressInterval = 100 * time.Millisecond

// Task owns the upload lifecycle of one file: validation, transfer and a
// terminal state (done, skipped, errored or aborted). It is safe for
// concurrent use; presenters are called with the task lock held and must not
// call back into the task.
type Task struct {
	id        string
	batchID   string
	index     int
	file      types.FileDescriptor
	request   TransferRequest
	transport Transport
	presenter types.ProgressPresenter

	mu       sync.Mutex
	status   types.TaskStatus
	percent  int
	reason   types.Rejection
	message  string
	cancel   context.CancelFunc
	progress *rate.Sometimes
	done     chan struct{}
}

type taskParams struct {
	batchID          string
	index            int
	file             types.FileDescriptor
	request          TransferRequest
	transport        Transport
	presenter        types.ProgressPresenter
	progressInterval time.Duration
}

func newTask(p taskParams) *Task {
	req := p.request
	req.File = p.file
	gate := &rate.Sometimes{Interval: p.progressInterval}
	if p.progressInterval <= 0 {
		gate = &rate.Sometimes{Every: 1}
	}
	return &Task{
		id:        tool.GenerateRandomUUID(),
		batchID:   p.batchID,
		index:     p.index,
		file:      p.file,
		request:   req,
		transport: p.transport,
		presenter: p.presenter,
		status:    types.TaskPending,
		progress:  gate,
		done:      make(chan struct{}),
	}
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) BatchID() string {
	return t.batchID
}

func (t *Task) File() types.FileDescriptor {
	return t.file
}

// Snapshot returns the current state of the task.
func (t *Task) Snapshot() types.TaskEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Done is closed once the task reached a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is terminal or ctx is done and returns the
// latest snapshot.
func (t *Task) Wait(ctx context.Context) (types.TaskEvent, error) {
	select {
	case <-t.done:
		return t.Snapshot(), nil
	case <-ctx.Done():
		return t.Snapshot(), ctx.Err()
	}
}

// Cancel aborts a task in progress. Results of the transfer still in flight
// are discarded, so a cancelled task always ends aborted. A pending task has
// no cancel affordance yet and returns ErrTaskPending.
func (t *Task) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		return ErrTaskFinished
	}
	if t.status == types.TaskPending {
		return ErrTaskPending
	}
	t.status = types.TaskAborted
	t.terminateLocked()
	tool.DefaultLogger.Infof("[Upload] Cancelled %s", t.file.Name)
	return nil
}

// announce publishes the pending row before the file is checked.
func (t *Task) announce() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitLocked()
}

// skip moves a pending task to skipped; the server is never contacted.
func (t *Task) skip(reason types.Rejection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != types.TaskPending {
		return
	}
	t.status = types.TaskSkipped
	t.reason = reason
	t.message = reason.Message()
	tool.DefaultLogger.Infof("[Upload] Skipping %s: %s", t.file.Name, t.message)
	t.terminateLocked()
}

// start moves a pending task to in progress and runs the transfer in its own
// goroutine. Cancelling parent aborts the task.
func (t *Task) start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	if t.status != types.TaskPending {
		t.mu.Unlock()
		cancel()
		return
	}
	t.status = types.TaskInProgress
	t.percent = 0
	t.cancel = cancel
	t.emitLocked()
	t.mu.Unlock()

	go t.run(ctx, cancel)
}

func (t *Task) run(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	// parent already cancelled: abort without contacting the server
	if err := ctx.Err(); err != nil {
		t.finish(ctx, err)
		return
	}
	err := t.transport.Send(ctx, t.request, t.setProgress)
	t.finish(ctx, err)
}

func (t *Task) setProgress(sent, total int64) {
	if total <= 0 {
		return
	}
	p := Percent(sent, total)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != types.TaskInProgress || p <= t.percent {
		return
	}
	t.percent = p
	if p == 100 {
		t.emitLocked()
		return
	}
	t.progress.Do(t.emitLocked)
}

func (t *Task) finish(ctx context.Context, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		// cancelled while the result was in flight
		return
	}

	switch {
	case err == nil:
		t.status = types.TaskDone
		t.percent = 100
		tool.DefaultLogger.Infof("[Upload] Finished %s", t.file.Name)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		t.status = types.TaskAborted
		tool.DefaultLogger.Infof("[Upload] Aborted %s: %v", t.file.Name, err)
	default:
		t.status = types.TaskErrored
		t.message = ErrorMessage(err)
		tool.DefaultLogger.Errorf("[Upload] Failed %s: %v", t.file.Name, err)
	}
	t.terminateLocked()
}

// terminateLocked drops the cancel affordance, publishes the final state and
// releases waiters. Calling the cancel func twice is harmless.
func (t *Task) terminateLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.emitLocked()
	close(t.done)
}

func (t *Task) emitLocked() {
	if t.presenter == nil {
		return
	}
	t.presenter.Present(t.snapshotLocked())
}

func (t *Task) snapshotLocked() types.TaskEvent {
	return types.TaskEvent{
		TaskID:     t.id,
		BatchID:    t.batchID,
		Index:      t.index,
		FileName:   t.file.Name,
		Size:       t.file.Size,
		Status:     t.status,
		Percent:    t.percent,
		Reason:     t.reason,
		Message:    t.message,
		Cancelable: t.status == types.TaskInProgress,
		Time:       time.Now(),
	}
}

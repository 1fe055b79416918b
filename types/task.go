package types

import "time"

// TaskStatus is the lifecycle state of a single upload task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskSkipped    TaskStatus = "skipped"
	TaskErrored    TaskStatus = "errored"
	TaskAborted    TaskStatus = "aborted"
)

// Terminal reports whether no further transition can happen from s.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskDone, TaskSkipped, TaskErrored, TaskAborted:
		return true
	}
	return false
}

// Rejection is the reason a file was refused before any transfer started.
// The zero value means the file was accepted.
type Rejection string

const (
	Accepted        Rejection = ""
	RejectTooLarge  Rejection = "too_large"
	RejectWrongType Rejection = "wrong_type"
	RejectDuplicate Rejection = "duplicate"
)

// Message returns the text shown next to a skipped file.
func (r Rejection) Message() string {
	switch r {
	case RejectTooLarge:
		return "too big (files cannot be over 100 megs)"
	case RejectWrongType:
		return "this file is not a PDF"
	case RejectDuplicate:
		return "this file is already in the queue"
	case Accepted:
		return ""
	}
	return string(r)
}

// TaskEvent is emitted on every state change of a task and doubles as the
// task's snapshot in the agent API.
type TaskEvent struct {
	TaskID     string     `json:"taskId"`
	BatchID    string     `json:"batchId"`
	Index      int        `json:"index"`
	FileName   string     `json:"fileName"`
	Size       int64      `json:"size"`
	Status     TaskStatus `json:"status"`
	Percent    int        `json:"percent"`
	Reason     Rejection  `json:"reason,omitempty"`
	Message    string     `json:"message,omitempty"`
	Cancelable bool       `json:"cancelable"`
	Time       time.Time  `json:"time"`
}

// ProgressPresenter renders task events. Implementations must not block for
// long: Present is called from the goroutine driving the transfer.
type ProgressPresenter interface {
	Present(event TaskEvent)
}

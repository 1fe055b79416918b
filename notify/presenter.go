package notify

import (
	"github.com/charmbracelet/log"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// Multi fans a task event out to several presenters, in order.
type Multi []types.ProgressPresenter

func (m Multi) Present(event types.TaskEvent) {
	for _, p := range m {
		if p != nil {
			p.Present(event)
		}
	}
}

// PresenterFunc adapts a function to types.ProgressPresenter.
type PresenterFunc func(event types.TaskEvent)

func (f PresenterFunc) Present(event types.TaskEvent) {
	f(event)
}

// LogPresenter renders one log line per task event, the terminal version of
// the upload page's progress rows.
type LogPresenter struct {
	Logger *log.Logger
}

func NewLogPresenter(logger *log.Logger) *LogPresenter {
	if logger == nil {
		logger = tool.DefaultLogger
	}
	return &LogPresenter{Logger: logger}
}

func (p *LogPresenter) Present(event types.TaskEvent) {
	l := p.Logger.With("batch", event.BatchID, "file", event.FileName)
	switch event.Status {
	case types.TaskPending:
		l.Debug("Queued", "size", tool.FileSizeHuman(event.Size))
	case types.TaskInProgress:
		l.Info("Uploading", "percent", event.Percent)
	case types.TaskDone:
		l.Info("Done")
	case types.TaskSkipped:
		l.Warnf("Skipping %s: %s", event.FileName, event.Message)
	case types.TaskErrored:
		l.Error("Upload failed", "error", event.Message)
	case types.TaskAborted:
		l.Warn("Cancelled")
	}
}

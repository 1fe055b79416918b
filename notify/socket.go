package notify

import (
	"time"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// SocketCloseTimeout bounds how long Close waits for queued notifications.
var SocketCloseTimeout = 5 * time.Second

// SocketPresenter forwards task events to an external progress UI listening
// on a Unix socket. Present never blocks: events wait in a Mailbox that
// keeps the latest snapshot per task, and a single goroutine writes them.
type SocketPresenter struct {
	socketPath string
	mailbox    *Mailbox
	send       func(*types.Notification, string) error
	warned     bool
}

func NewSocketPresenter(socketPath string) *SocketPresenter {
	return newSocketPresenter(socketPath, SendNotification)
}

func newSocketPresenter(socketPath string, send func(*types.Notification, string) error) *SocketPresenter {
	p := &SocketPresenter{socketPath: socketPath, send: send}
	p.mailbox = NewMailbox(p.deliver)
	return p
}

func (p *SocketPresenter) Present(event types.TaskEvent) {
	if !UseNotify {
		return
	}
	p.mailbox.Push(event)
}

// Close flushes queued events and stops the writer. Later events are dropped.
func (p *SocketPresenter) Close() {
	if !p.mailbox.Close(SocketCloseTimeout) {
		tool.DefaultLogger.Warnf("[Notify] Gave up on %d pending notification(s)", p.mailbox.Len())
	}
}

// deliver runs on the mailbox goroutine only.
func (p *SocketPresenter) deliver(event types.TaskEvent) {
	if err := p.send(types.NotificationFromEvent(event), p.socketPath); err != nil {
		if !p.warned {
			tool.DefaultLogger.Warnf("[Notify] %v", err)
			p.warned = true
		}
		return
	}
	p.warned = false
}

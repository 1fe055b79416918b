package transfer

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/moyoez/progress-uploader/types"
)

func pdfFile(name, content string) types.FileDescriptor {
	return types.FileDescriptor{
		Name:     name,
		Size:     int64(len(content)),
		MimeType: types.AcceptedMimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

type transportFunc func(ctx context.Context, req TransferRequest, progress ProgressFunc) error

func (f transportFunc) Send(ctx context.Context, req TransferRequest, progress ProgressFunc) error {
	return f(ctx, req, progress)
}

type recorder struct {
	mu     sync.Mutex
	events []types.TaskEvent
}

func (r *recorder) Present(event types.TaskEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) forTask(id string) []types.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.TaskEvent
	for _, e := range r.events {
		if e.TaskID == id {
			out = append(out, e)
		}
	}
	return out
}

func statuses(events []types.TaskEvent) []types.TaskStatus {
	out := make([]types.TaskStatus, len(events))
	for i, e := range events {
		out[i] = e.Status
	}
	return out
}

func newTestCoordinator(t testing.TB, transport Transport, presenter types.ProgressPresenter) *Coordinator {
	c, err := NewCoordinator(Options{
		Endpoint:         "http://workflow.test/upload/ajax",
		UID:              "42",
		Transport:        transport,
		Presenter:        presenter,
		ProgressInterval: -1,
	})
	if err != nil {
		t.Helper()
		t.Fatalf("NewCoordinator: %v", err)
	}
	return c
}

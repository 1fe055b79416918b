package notify

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/progress-uploader/transfer"
	"github.com/moyoez/progress-uploader/types"
)

// listenNotify accepts notification connections on a temporary unix socket
// and decodes each frame.
func listenNotify(t *testing.T, reply string) (string, <-chan types.Notification) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	out := make(chan types.Notification, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			var size uint32
			if err := binary.Read(conn, binary.LittleEndian, &size); err == nil {
				payload := make([]byte, size)
				if _, err := io.ReadFull(conn, payload); err == nil {
					var n types.Notification
					if sonic.Unmarshal(payload, &n) == nil {
						out <- n
					}
				}
			}
			if reply != "" {
				_, _ = conn.Write([]byte(reply))
			}
			conn.Close()
		}
	}()
	return path, out
}

func TestSendNotification(t *testing.T) {
	path, got := listenNotify(t, "")
	err := SendNotification(&types.Notification{Type: types.NotifyTypeUploadEnd, Title: "a.pdf"}, path)
	if err != nil {
		t.Fatalf("SendNotification: %v", err)
	}
	select {
	case n := <-got:
		if n.Type != types.NotifyTypeUploadEnd || n.Title != "a.pdf" {
			t.Errorf("received %+v", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("notification not received")
	}
}

func TestSendNotificationErrorReply(t *testing.T) {
	path, _ := listenNotify(t, `{"error":"ui busy"}`)
	if err := SendNotification(&types.Notification{Title: "a.pdf"}, path); err == nil {
		t.Error("expected the error reply to be returned")
	}
}

func TestSendNotificationMissingSocket(t *testing.T) {
	if err := SendNotification(&types.Notification{}, filepath.Join(t.TempDir(), "none.sock")); err == nil {
		t.Error("expected error for a missing socket")
	}
}

func TestSocketPresenterDeliversEvents(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	p := newSocketPresenter("", func(n *types.Notification, _ string) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, n.Type)
		return nil
	})

	p.Present(types.TaskEvent{TaskID: "a", Status: types.TaskPending})
	p.Present(types.TaskEvent{TaskID: "b", Status: types.TaskInProgress, Percent: 100})
	p.Present(types.TaskEvent{TaskID: "c", Status: types.TaskDone})
	p.Close()
	p.Present(types.TaskEvent{TaskID: "d", Status: types.TaskDone}) // dropped after Close

	mu.Lock()
	defer mu.Unlock()
	want := map[string]bool{
		types.NotifyTypeUploadStart:    true,
		types.NotifyTypeUploadProgress: true,
		types.NotifyTypeUploadEnd:      true,
	}
	if len(sent) != len(want) {
		t.Fatalf("sent = %v", sent)
	}
	for _, typ := range sent {
		if !want[typ] {
			t.Errorf("unexpected notification %s", typ)
		}
	}
}

func TestSocketPresenterNeverBlocksUploads(t *testing.T) {
	release := make(chan struct{})
	p := newSocketPresenter("", func(*types.Notification, string) error {
		<-release // a listener that accepts but never answers
		return nil
	})
	defer func() {
		close(release)
		p.Close()
	}()

	c, err := transfer.NewCoordinator(transfer.Options{
		Endpoint:  "http://workflow.test/ajax",
		Transport: transferFunc(func(context.Context, transfer.TransferRequest, transfer.ProgressFunc) error {
			return nil
		}),
		Presenter: p,
	})
	if err != nil {
		t.Fatal(err)
	}

	files := make([]types.FileDescriptor, 200)
	for i := range files {
		files[i] = types.FileDescriptor{Name: fmt.Sprintf("f%d.txt", i), Size: 1, MimeType: "text/plain"}
	}
	done := make(chan struct{})
	go func() {
		c.Submit(context.Background(), files)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked behind a stalled notification listener")
	}
}

func TestSocketPresenterCloseGivesUp(t *testing.T) {
	old := SocketCloseTimeout
	SocketCloseTimeout = 50 * time.Millisecond
	defer func() { SocketCloseTimeout = old }()

	release := make(chan struct{})
	defer close(release)
	p := newSocketPresenter("", func(*types.Notification, string) error {
		<-release
		return nil
	})
	p.Present(types.TaskEvent{TaskID: "a", Status: types.TaskDone})

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close waited for a stalled listener")
	}
}

type transferFunc func(context.Context, transfer.TransferRequest, transfer.ProgressFunc) error

func (f transferFunc) Send(ctx context.Context, req transfer.TransferRequest, progress transfer.ProgressFunc) error {
	return f(ctx, req, progress)
}

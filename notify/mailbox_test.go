package notify

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/moyoez/progress-uploader/types"
)

func TestMailboxKeepsLatestPerTask(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string

	m := NewMailbox(func(e types.TaskEvent) {
		mu.Lock()
		got = append(got, e.TaskID+":"+string(e.Status))
		first := len(got) == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
	})

	m.Push(types.TaskEvent{TaskID: "a", Status: types.TaskPending})
	<-started
	m.Push(types.TaskEvent{TaskID: "b", Status: types.TaskPending})
	m.Push(types.TaskEvent{TaskID: "a", Status: types.TaskInProgress})
	m.Push(types.TaskEvent{TaskID: "a", Status: types.TaskDone})
	if m.Len() != 2 {
		t.Errorf("Len = %d, want one entry per task", m.Len())
	}
	close(release)

	if !m.Close(time.Second) {
		t.Fatal("Close timed out")
	}
	want := []string{"a:pending", "b:pending", "a:done"}
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
	if m.Push(types.TaskEvent{TaskID: "c"}) {
		t.Error("Push after Close should report false")
	}
}

func TestMailboxPushNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m := NewMailbox(func(types.TaskEvent) { <-block })

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			m.Push(types.TaskEvent{TaskID: string(rune('a' + i%26)), Percent: i % 100})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked behind a stalled consumer")
	}
	if m.Len() > 26 {
		t.Errorf("Len = %d, want at most one entry per task", m.Len())
	}
}

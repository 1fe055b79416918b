package models

import (
	"testing"
	"time"

	"github.com/moyoez/progress-uploader/transfer"
	"github.com/moyoez/progress-uploader/types"
)

func TestTaskRegistryKeepsLatestSnapshot(t *testing.T) {
	r := NewTaskRegistry(time.Minute)
	r.Present(types.TaskEvent{TaskID: "a", Status: types.TaskPending})
	r.Present(types.TaskEvent{TaskID: "b", Status: types.TaskPending})
	r.Present(types.TaskEvent{TaskID: "a", Status: types.TaskInProgress, Percent: 40})

	got, ok := r.Get("a")
	if !ok || got.Status != types.TaskInProgress || got.Percent != 40 {
		t.Errorf("Get(a) = %+v, %v", got, ok)
	}
	list := r.List()
	if len(list) != 2 || list[0].TaskID != "a" || list[1].TaskID != "b" {
		t.Errorf("List = %+v", list)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}

func TestTaskRegistryExpires(t *testing.T) {
	r := NewTaskRegistry(20 * time.Millisecond)
	r.Present(types.TaskEvent{TaskID: "a", Status: types.TaskDone})
	time.Sleep(60 * time.Millisecond)
	if list := r.List(); len(list) != 0 {
		t.Errorf("expired snapshot still listed: %+v", list)
	}
	if len(r.known) != 0 {
		t.Errorf("expired id still known: %v", r.known)
	}
}

func TestSessionReset(t *testing.T) {
	n := 0
	err := SetupSession(func() (*transfer.Coordinator, error) {
		n++
		return transfer.NewCoordinator(transfer.Options{Endpoint: "http://workflow.test/ajax"})
	}, NewTaskRegistry(time.Minute))
	if err != nil {
		t.Fatalf("SetupSession: %v", err)
	}
	first := CurrentCoordinator()
	second, err := ResetSession()
	if err != nil {
		t.Fatalf("ResetSession: %v", err)
	}
	if first == second || CurrentCoordinator() != second || n != 2 {
		t.Error("ResetSession should install a fresh coordinator")
	}
	if GetTaskRegistry() == nil {
		t.Error("registry not installed")
	}
}

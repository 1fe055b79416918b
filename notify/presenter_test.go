package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/moyoez/progress-uploader/types"
)

func TestMultiPresentsInOrder(t *testing.T) {
	var order []string
	m := Multi{
		PresenterFunc(func(e types.TaskEvent) { order = append(order, "first:"+e.FileName) }),
		nil,
		PresenterFunc(func(e types.TaskEvent) { order = append(order, "second:"+e.FileName) }),
	}
	m.Present(types.TaskEvent{FileName: "a.pdf"})
	if strings.Join(order, ",") != "first:a.pdf,second:a.pdf" {
		t.Errorf("order = %v", order)
	}
}

func TestLogPresenter(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	p := NewLogPresenter(logger)

	p.Present(types.TaskEvent{FileName: "a.pdf", Status: types.TaskInProgress, Percent: 42})
	p.Present(types.TaskEvent{FileName: "b.pdf", Status: types.TaskSkipped, Message: types.RejectDuplicate.Message()})
	p.Present(types.TaskEvent{FileName: "c.pdf", Status: types.TaskErrored, Message: "bad scan"})

	out := buf.String()
	for _, want := range []string{"Uploading", "percent=42", "Skipping b.pdf: this file is already in the queue", "bad scan"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNotificationFromEvent(t *testing.T) {
	n := types.NotificationFromEvent(types.TaskEvent{
		TaskID:   "t1",
		FileName: "a.pdf",
		Status:   types.TaskSkipped,
		Reason:   types.RejectWrongType,
		Message:  types.RejectWrongType.Message(),
	})
	if n.Type != types.NotifyTypeUploadSkipped || n.Title != "a.pdf" || n.Message != "this file is not a PDF" {
		t.Errorf("notification = %+v", n)
	}
	if n.Data["reason"] != "wrong_type" || n.Data["taskId"] != "t1" {
		t.Errorf("data = %v", n.Data)
	}
}

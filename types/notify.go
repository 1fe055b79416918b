package types

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "upload_progress", "upload_end", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

const (
	NotifyTypeUploadStart    = "upload_start"
	NotifyTypeUploadProgress = "upload_progress"
	NotifyTypeUploadEnd      = "upload_end"
	NotifyTypeUploadSkipped  = "upload_skipped"
	NotifyTypeUploadFailed   = "upload_failed"
	NotifyTypeUploadCanceled = "upload_canceled"
)

// NotifyTypeFor maps a task status to the notification type sent for it.
func NotifyTypeFor(status TaskStatus) string {
	switch status {
	case TaskInProgress:
		return NotifyTypeUploadProgress
	case TaskDone:
		return NotifyTypeUploadEnd
	case TaskSkipped:
		return NotifyTypeUploadSkipped
	case TaskErrored:
		return NotifyTypeUploadFailed
	case TaskAborted:
		return NotifyTypeUploadCanceled
	}
	return NotifyTypeUploadStart
}

// NotificationFromEvent converts a task event into the notification payload
// shared by the websocket hub and the unix socket notifier.
func NotificationFromEvent(event TaskEvent) *Notification {
	n := &Notification{
		Type:  NotifyTypeFor(event.Status),
		Title: event.FileName,
		Data: map[string]any{
			"taskId":     event.TaskID,
			"batchId":    event.BatchID,
			"index":      event.Index,
			"fileName":   event.FileName,
			"size":       event.Size,
			"status":     string(event.Status),
			"percent":    event.Percent,
			"cancelable": event.Cancelable,
		},
	}
	if event.Reason != Accepted {
		n.Data["reason"] = string(event.Reason)
	}
	if event.Message != "" {
		n.Message = event.Message
	}
	return n
}

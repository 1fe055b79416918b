package transfer

import "github.com/moyoez/progress-uploader/types"

// QueueLookup is the read side of the upload queue used for duplicate checks.
type QueueLookup interface {
	Contains(name string, size int64) bool
}

// Validate checks file against the acceptance rules in a fixed order (size,
// type, duplicate) and returns the first failing rule, or types.Accepted.
// A nil queue never reports duplicates.
func Validate(file types.FileDescriptor, queue QueueLookup) types.Rejection {
	if file.Size > types.MaxUploadSize {
		return types.RejectTooLarge
	}
	if file.MimeType != types.AcceptedMimeType {
		return types.RejectWrongType
	}
	if queue != nil && queue.Contains(file.Name, file.Size) {
		return types.RejectDuplicate
	}
	return types.Accepted
}

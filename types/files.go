package types

import "io"

// MaxUploadSize is the largest file the workflow server accepts (100 MiB).
const MaxUploadSize int64 = 100 * 1024 * 1024

// AcceptedMimeType is the only content type the workflow server accepts.
const AcceptedMimeType = "application/pdf"

// FileDescriptor describes one file selected for upload. It is immutable once
// built; Open is called once by the task that owns it.
type FileDescriptor struct {
	Name     string `json:"fileName"`
	Size     int64  `json:"size"`
	MimeType string `json:"fileType"`
	Path     string `json:"path,omitempty"`

	Open func() (io.ReadCloser, error) `json:"-"`
}

// FileKey is the identity used for duplicate detection.
type FileKey struct {
	Name string
	Size int64
}

func (f FileDescriptor) Key() FileKey {
	return FileKey{Name: f.Name, Size: f.Size}
}

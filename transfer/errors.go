package transfer

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericNetworkErrorMessage is shown when the transfer failed before the
// server produced a response.
const GenericNetworkErrorMessage = "network error uploading file"

var (
	ErrTaskNotFound = errors.New("upload task not found")
	ErrTaskFinished = errors.New("upload task already finished")
	ErrTaskPending  = errors.New("upload task has not started yet")
	ErrNoEndpoint   = errors.New("upload endpoint is not configured")
)

// StatusError is returned when the server answered with anything but 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upload request failed: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
	}
	return fmt.Sprintf("upload request failed: %d %s", e.Code, http.StatusText(e.Code))
}

// NetworkError wraps a failure of the connection itself.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to send upload request: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the text shown for a failed task: the server's body
// verbatim when there is one, a generic text for network failures.
func ErrorMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Body != "" {
			return statusErr.Body
		}
		return fmt.Sprintf("%d %s", statusErr.Code, http.StatusText(statusErr.Code))
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return GenericNetworkErrorMessage
	}
	return err.Error()
}

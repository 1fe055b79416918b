package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// Configuration for Unix Domain Socket notification
var (
	// DefaultUnixSocketPath is the default Unix socket path for IPC
	DefaultUnixSocketPath = "/tmp/progress-uploader-notify.sock"
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second
	UseNotify         = true

	notifyWSMu      sync.RWMutex
	notifyWSEnabled = true
)

// SetUseNotify sets whether to use notify
func SetUseNotify(use bool) {
	UseNotify = use
}

// SetNotifyWSEnabled toggles the websocket progress feed of the agent API.
func SetNotifyWSEnabled(enabled bool) {
	notifyWSMu.Lock()
	defer notifyWSMu.Unlock()
	notifyWSEnabled = enabled
}

// NotifyWSEnabled reports whether the websocket progress feed is served.
func NotifyWSEnabled() bool {
	notifyWSMu.RLock()
	defer notifyWSMu.RUnlock()
	return notifyWSEnabled
}

// SendNotification sends notification via Unix Domain Socket: a 4 byte
// little-endian length followed by the JSON payload.
func SendNotification(notification *types.Notification, socketPath string) error {
	if !UseNotify {
		return nil
	}
	if socketPath == "" {
		socketPath = DefaultUnixSocketPath
	}

	// Check if socket file exists
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the progress UI running?)", socketPath)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %w", err)
		}
	} else {
		payload = []byte("{}")
	}

	// Reject payload over 32KB
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %w", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to Unix socket: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	// The receiver may answer with {"error": "..."}; silence is fine too.
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil
		}
		return fmt.Errorf("failed to read response from Unix socket: %w", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("progress UI returned error: %s", errMsg)
		}
	}

	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Title)
	}
	return nil
}

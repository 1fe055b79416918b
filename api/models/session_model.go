package models

import (
	"errors"
	"sync"

	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/transfer"
)

// CoordinatorFactory builds the coordinator of a new upload session.
type CoordinatorFactory func() (*transfer.Coordinator, error)

var ErrNoSession = errors.New("upload session is not configured")

var (
	sessionMu      sync.RWMutex
	coordinator    *transfer.Coordinator
	newCoordinator CoordinatorFactory
	registry       *TaskRegistry
)

// SetupSession installs the factory and registry used by the agent API and
// opens the first session.
func SetupSession(factory CoordinatorFactory, reg *TaskRegistry) error {
	sessionMu.Lock()
	newCoordinator = factory
	registry = reg
	sessionMu.Unlock()
	_, err := ResetSession()
	return err
}

// ResetSession replaces the coordinator, starting over with an empty queue.
// Tasks of the previous session keep running.
func ResetSession() (*transfer.Coordinator, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if newCoordinator == nil {
		return nil, ErrNoSession
	}
	c, err := newCoordinator()
	if err != nil {
		return nil, err
	}
	if coordinator != nil {
		tool.DefaultLogger.Infof("[Session] %s replaced by %s", coordinator.SessionID(), c.SessionID())
	}
	coordinator = c
	return c, nil
}

// CurrentCoordinator returns the coordinator of the active session, or nil.
func CurrentCoordinator() *transfer.Coordinator {
	sessionMu.RLock()
	defer sessionMu.RUnlock()
	return coordinator
}

// GetTaskRegistry returns the registry shared by every session.
func GetTaskRegistry() *TaskRegistry {
	sessionMu.RLock()
	defer sessionMu.RUnlock()
	return registry
}

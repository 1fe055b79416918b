package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/progress-uploader/api/models"
	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/transfer"
	"github.com/moyoez/progress-uploader/types"
)

// UserSubmitUpload submits a batch of local files to the current session.
// Transfers outlive the request; poll GET /uploads or listen on /notify-ws.
// POST /api/self/v1/uploads
func UserSubmitUpload(c *gin.Context) {
	var request types.SubmitUploadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}

	paths := append([]string(nil), request.Files...)
	if request.FolderPath != "" {
		paths = append(paths, request.FolderPath)
	}
	if len(paths) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("files or folderPath is required"))
		return
	}

	coordinator := models.CurrentCoordinator()
	if coordinator == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Upload session is not ready, check formAction in config"))
		return
	}

	filePaths, err := tool.CollectFiles(paths, request.Recursive)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	sniff := tool.GetCurrentConfig().SniffContent
	files := make([]types.FileDescriptor, 0, len(filePaths))
	for _, p := range filePaths {
		file, err := tool.DescribeFile(p, sniff)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		files = append(files, file)
	}

	batch := coordinator.Submit(context.Background(), files)
	if registry := models.GetTaskRegistry(); registry != nil {
		registry.Track(batch.Tasks...)
	}

	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.SubmitUploadResponse{
		BatchId:   batch.ID,
		SessionId: coordinator.SessionID(),
		Tasks:     batch.Snapshots(),
	}))
}

// UserListUploads lists the retained tasks of every session.
// GET /api/self/v1/uploads
func UserListUploads(c *gin.Context) {
	resp := types.UploadListResponse{Tasks: []types.TaskEvent{}}
	if coordinator := models.CurrentCoordinator(); coordinator != nil {
		resp.SessionId = coordinator.SessionID()
	}
	if registry := models.GetTaskRegistry(); registry != nil {
		resp.Tasks = registry.List()
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}

// UserGetUpload returns the latest snapshot of one task.
// GET /api/self/v1/uploads/:taskId
func UserGetUpload(c *gin.Context) {
	taskId := c.Param("taskId")
	registry := models.GetTaskRegistry()
	if registry == nil {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Task not found"))
		return
	}
	event, ok := registry.Get(taskId)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Task not found"))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(event))
}

// UserCancelUpload cancels one in-flight task; its siblings keep going.
// POST /api/self/v1/uploads/:taskId/cancel
func UserCancelUpload(c *gin.Context) {
	taskId := c.Param("taskId")
	err := cancelTask(taskId)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, tool.FastReturnSuccess())
	case errors.Is(err, transfer.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, tool.FastReturnError("Task not found"))
	case errors.Is(err, transfer.ErrTaskFinished):
		c.JSON(http.StatusConflict, tool.FastReturnError("Task already finished"))
	case errors.Is(err, transfer.ErrTaskPending):
		c.JSON(http.StatusConflict, tool.FastReturnError("Task has not started yet"))
	default:
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
	}
}

func cancelTask(taskId string) error {
	if registry := models.GetTaskRegistry(); registry != nil {
		if task, ok := registry.Lookup(taskId); ok {
			return task.Cancel()
		}
	}
	if coordinator := models.CurrentCoordinator(); coordinator != nil {
		return coordinator.Cancel(taskId)
	}
	return transfer.ErrTaskNotFound
}

// UserResetSession starts a new session with an empty upload queue. Tasks of
// the old session keep running.
// POST /api/self/v1/session/reset
func UserResetSession(c *gin.Context) {
	coordinator, err := models.ResetSession()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Failed to reset session: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"sessionId": coordinator.SessionID()}))
}

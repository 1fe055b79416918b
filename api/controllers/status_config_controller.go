package controllers

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/progress-uploader/api/models"
	"github.com/moyoez/progress-uploader/notify"
	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

// UserStatus returns agent status for the dashboard.
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	sessionId := ""
	if coordinator := models.CurrentCoordinator(); coordinator != nil {
		sessionId = coordinator.SessionID()
	}
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"session_id":        sessionId,
		"notify_ws_enabled": notify.NotifyWSEnabled(),
	})
}

// renderConfig writes the config body with sonic.
func renderConfig(c *gin.Context, cfg types.AppConfig) {
	body, err := sonic.Marshal(configResponse(cfg))
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode config: "+err.Error()))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func configResponse(cfg types.AppConfig) types.ConfigResponse {
	return types.ConfigResponse{
		FormAction:      cfg.FormAction,
		UID:             cfg.UID,
		Port:            cfg.Port,
		SniffContent:    cfg.SniffContent,
		NotifySocket:    cfg.NotifySocket,
		NotifyWebsocket: cfg.NotifyWebsocket,
		TaskRetention:   cfg.TaskRetention,
	}
}

// UserConfigGet returns the active config.
// GET /api/self/v1/config
func UserConfigGet(c *gin.Context) {
	renderConfig(c, tool.GetCurrentConfig())
}

// UserConfigPatch accepts a partial config and persists it to config.yaml.
// A changed formAction or uid takes effect with the next session.
// PATCH /api/self/v1/config
func UserConfigPatch(c *gin.Context) {
	var body types.ConfigPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}

	cfg := tool.GetCurrentConfig()
	if body.FormAction != nil {
		if _, err := tool.BuildAjaxUploadURL(*body.FormAction); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		cfg.FormAction = *body.FormAction
	}
	if body.UID != nil {
		cfg.UID = *body.UID
	}
	if body.SniffContent != nil {
		cfg.SniffContent = *body.SniffContent
	}
	if body.NotifySocket != nil {
		cfg.NotifySocket = *body.NotifySocket
	}
	if body.NotifyWebsocket != nil {
		cfg.NotifyWebsocket = *body.NotifyWebsocket
	}
	if body.TaskRetention != nil {
		if *body.TaskRetention <= 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("task_retention must be positive"))
			return
		}
		cfg.TaskRetention = *body.TaskRetention
	}

	if err := tool.PersistAppConfig(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to persist config: "+err.Error()))
		return
	}
	renderConfig(c, cfg)
}

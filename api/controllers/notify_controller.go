package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/progress-uploader/api/models"
	"github.com/moyoez/progress-uploader/tool"
)

const notifyWSReadLimit = 512

var notifyWSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // OnlyAllowLocal middleware already restricts to localhost
	},
}

// HandleNotifyWS upgrades the request to WebSocket and streams task
// notifications from hub until the client goes away. The feed is one-way;
// anything the client sends is discarded.
// GET /api/self/v1/notify-ws
func HandleNotifyWS(hub *models.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := notifyWSUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			tool.DefaultLogger.Debugf("[NotifyWS] Upgrade failed: %v", err)
			return
		}
		hub.Register(conn)
		tool.DefaultLogger.Debugf("[NotifyWS] %s connected, %d client(s)", c.ClientIP(), hub.Clients())
		defer func() {
			hub.Unregister(conn)
			_ = conn.Close()
		}()

		// reading only detects the close
		conn.SetReadLimit(notifyWSReadLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/progress-uploader/tool"
)

// UserProbe pings the host of the configured upload form, or ?host= when given.
// GET /api/self/v1/probe
func UserProbe(c *gin.Context) {
	host := c.Query("host")
	if host == "" {
		var err error
		host, err = tool.UploadHost(tool.GetCurrentConfig().FormAction)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
	}
	result, err := tool.ProbeHost(host)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnErrorWithData(err.Error(), map[string]any{"host": host}))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(result))
}

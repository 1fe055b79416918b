package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// JSON envelopes shared by the agent API controllers.

func FastReturnError(msg string) gin.H {
	return gin.H{"error": msg}
}

func FastReturnSuccess() gin.H {
	return gin.H{"status": "ok"}
}

func FastReturnSuccessWithData(data any) gin.H {
	resp := FastReturnSuccess()
	resp["data"] = data
	return resp
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := FastReturnError(msg)
	maps.Copy(resp, data)
	return resp
}

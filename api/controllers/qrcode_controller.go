package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/moyoez/progress-uploader/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// GenerateQRCode returns a PNG QR code. Without data it encodes the
// configured upload form on the workflow server, so the same form can be
// opened from a phone. The agent API itself only answers loopback clients.
// GET /api/self/v1/create-qr-code?data=<content>&size=200x200
func GenerateQRCode(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		data = strings.TrimSpace(tool.GetCurrentConfig().FormAction)
	}
	if data == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: data (no formAction configured)"))
		return
	}

	size := qrPixelSize(c.Query("size"))
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// qrPixelSize accepts "200x200" or "200" and clamps to [1, maxQRSize].
func qrPixelSize(s string) int {
	s = strings.TrimSpace(s)
	if w, _, ok := strings.Cut(s, "x"); ok {
		s = strings.TrimSpace(w)
	}
	n, err := strconv.Atoi(s)
	switch {
	case err != nil || n <= 0:
		return defaultQRSize
	case n > maxQRSize:
		return maxQRSize
	}
	return n
}

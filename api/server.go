package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/progress-uploader/api/controllers"
	"github.com/moyoez/progress-uploader/api/middlewares"
	"github.com/moyoez/progress-uploader/api/models"
	"github.com/moyoez/progress-uploader/notify"
	"github.com/moyoez/progress-uploader/tool"
)

// Server is the local agent API: it accepts upload batches from other local
// programs and reports task progress.
type Server struct {
	port   int
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(port int) *Server {
	if port <= 0 {
		port = tool.DefaultAgentPort
	}
	return &Server{port: port}
}

// Routes builds the gin engine; exposed for tests.
func Routes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/status", controllers.UserStatus)
		self.POST("/uploads", controllers.UserSubmitUpload)
		self.GET("/uploads", controllers.UserListUploads)
		self.GET("/uploads/:taskId", controllers.UserGetUpload)
		self.POST("/uploads/:taskId/cancel", controllers.UserCancelUpload)
		self.POST("/session/reset", controllers.UserResetSession)
		self.GET("/create-qr-code", controllers.GenerateQRCode) // QR code PNG (same params as api.qrserver.com)
		self.GET("/probe", controllers.UserProbe)
		if hub := models.GetNotifyHub(); notify.NotifyWSEnabled() && hub != nil {
			self.GET("/notify-ws", controllers.HandleNotifyWS(hub))
		}
		self.GET("/config", controllers.UserConfigGet)
		self.PATCH("/config", controllers.UserConfigPatch)
	}
	return engine
}

// Start serves the API until Shutdown is called.
func (s *Server) Start() error {
	engine := Routes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting agent API on http://127.0.0.1:%d/api/self/v1", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

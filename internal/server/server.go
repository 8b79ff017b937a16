package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/api"
	"github.com/manhtrinhmkt-stack/kiemso/internal/config"
	"github.com/manhtrinhmkt-stack/kiemso/internal/logging"
	"github.com/manhtrinhmkt-stack/kiemso/internal/session"
	"github.com/manhtrinhmkt-stack/kiemso/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Server máy chủ HTTP
type Server struct {
	router *gin.Engine
	api    *api.Handler
	http   *http.Server
	logger *zap.Logger
}

// NewServer tạo máy chủ
func NewServer(cfg *config.AppConfig, st *store.Store, sess *session.Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logging.GinLogger(logger), logging.GinRecovery(logger))
	// multipart nằm trong bộ nhớ tới giới hạn tải lên, phần dư ghi ra tệp tạm
	if cfg.Upload.MaxBytes > 0 {
		router.MaxMultipartMemory = cfg.Upload.MaxBytes
	}

	s := &Server{
		router: router,
		api:    api.NewHandler(sess, st, cfg.Upload.MaxBytes, logger),
		logger: logger.Named("server"),
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.setupRoutes()

	return s
}

// setupRoutes thiết lập route
func (s *Server) setupRoutes() {
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	sub, _ := fs.Sub(staticFiles, "dist")

	assetsSub, _ := fs.Sub(sub, "assets")
	s.router.StaticFS("/assets", http.FS(assetsSub))

	s.router.GET("/favicon.svg", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	})

	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)

	// route không tồn tại: API trả 404 JSON, còn lại trả về trang chính
	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		index(c)
	})
}

// Handler trả về http.Handler (dùng trong test)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr địa chỉ lắng nghe
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run khởi động máy chủ, chặn cho tới khi Shutdown
// Shutdown gọi trước Run khiến Run trả về ngay
func (s *Server) Run() error {
	s.logger.Info("listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown dừng máy chủ
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
	"github.com/manhtrinhmkt-stack/kiemso/internal/session"
)

// ImportLogLister nguồn nhật ký nạp tệp
type ImportLogLister interface {
	ListImportLogs(limit int) ([]model.ImportLog, error)
}

// Handler bộ xử lý API
type Handler struct {
	session        *session.Session
	imports        ImportLogLister
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler tạo bộ xử lý API
func NewHandler(sess *session.Session, imports ImportLogLister, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		session:        sess,
		imports:        imports,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("api"),
	}
}

// RegisterRoutes đăng ký route
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// trạng thái hệ thống
	router.GET("/status", h.GetStatus)

	// nạp danh sách vé
	router.POST("/tickets", h.UploadTickets)
	router.GET("/imports", h.ListImports)

	// tra cứu
	router.POST("/check", h.Check)

	// lịch sử
	router.GET("/history", h.GetHistory)
	router.DELETE("/history", h.ClearHistory)

	// nhãn hiển thị
	router.GET("/labels", h.GetLabels)
	router.PATCH("/labels", h.UpdateLabels)
}

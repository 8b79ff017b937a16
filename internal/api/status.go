package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/ingest"
	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

// StatusResponse phản hồi trạng thái
type StatusResponse struct {
	Loaded         bool               `json:"loaded"`         // đã nạp danh sách vé chưa
	FileName       string             `json:"fileName"`       // tên tệp đã nạp
	Count          int                `json:"count"`          // số mã khác nhau
	HistorySize    int                `json:"historySize"`    // số bản ghi lịch sử
	Labels         model.LabelConfig  `json:"labels"`         // nhãn hiển thị
	Accept         []string           `json:"accept"`         // đuôi tệp được chấp nhận
	LastResult     *model.CheckResult `json:"lastResult"`     // kết quả gần nhất
	LastImportTime string             `json:"lastImportTime"` // lần nạp tệp gần nhất
}

// GetStatus trạng thái phiên
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		HistorySize: len(h.session.History()),
		Labels:      h.session.Labels(),
		Accept:      ingest.SupportedExtensions,
	}

	if tickets := h.session.Tickets(); tickets != nil {
		resp.Loaded = true
		resp.FileName = tickets.Name
		resp.Count = tickets.Count
	}

	if last, ok := h.session.Last(); ok {
		resp.LastResult = &last
	}

	if h.imports != nil {
		logs, err := h.imports.ListImportLogs(1)
		if err != nil {
			h.logger.Warn("failed to read import logs", zap.Error(err))
		} else if len(logs) > 0 {
			resp.LastImportTime = logs[0].StartedAt.Format(time.RFC3339)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListImports nhật ký nạp tệp
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	if h.imports == nil {
		c.JSON(http.StatusOK, []model.ImportLog{})
		return
	}

	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tham số không hợp lệ"})
		return
	}

	logs, err := h.imports.ListImportLogs(query.Limit)
	if err != nil {
		h.logger.Error("failed to list import logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "không đọc được nhật ký"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

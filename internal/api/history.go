package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetHistory lịch sử tra cứu, mới nhất đứng đầu
// GET /api/history
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.History())
}

// ClearHistory xóa lịch sử
// DELETE /api/history
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.session.ClearHistory(); err != nil {
		h.logger.Error("failed to clear history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "không xóa được lịch sử"})
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LabelsPatch cập nhật một phần nhãn
type LabelsPatch struct {
	Match   *string `json:"match"`
	NoMatch *string `json:"noMatch"`
}

// GetLabels nhãn hiện tại
// GET /api/labels
func (h *Handler) GetLabels(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Labels())
}

// UpdateLabels cập nhật nhãn (chỉ trong phiên hiện tại)
// PATCH /api/labels
func (h *Handler) UpdateLabels(c *gin.Context) {
	var patch LabelsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tham số không hợp lệ"})
		return
	}

	labels := h.session.Labels()
	if patch.Match != nil {
		labels.Match = *patch.Match
	}
	if patch.NoMatch != nil {
		labels.NoMatch = *patch.NoMatch
	}

	c.JSON(http.StatusOK, h.session.SetLabels(labels))
}

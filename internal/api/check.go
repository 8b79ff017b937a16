package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckRequest yêu cầu tra cứu
type CheckRequest struct {
	Number string `json:"number"`
}

// CheckResponse kết quả tra cứu kèm nhãn hiển thị
type CheckResponse struct {
	Number  string `json:"number"`
	IsValid bool   `json:"isValid"`
	Label   string `json:"label"`
}

// Check tra cứu một số
// POST /api/check
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tham số không hợp lệ"})
		return
	}

	if h.session.Tickets() == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "chưa nạp dữ liệu"})
		return
	}

	result, ok := h.session.Check(req.Number)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chưa nhập mã số"})
		return
	}

	c.JSON(http.StatusOK, CheckResponse{
		Number:  result.Number,
		IsValid: result.IsValid,
		Label:   h.session.Labels().For(result.IsValid),
	})
}

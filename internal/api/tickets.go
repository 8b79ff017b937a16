package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/session"
)

// FileProcessingMessage thông báo chung khi tệp không xử lý được
const FileProcessingMessage = "Lỗi xử lý file."

// multipartOverhead phần dư cho ranh giới và header của form multipart
const multipartOverhead = 64 << 10

// UploadResponse kết quả nạp tệp
type UploadResponse struct {
	FileName string `json:"fileName"`
	Count    int    `json:"count"`
}

// UploadTickets nạp danh sách vé (multipart, field "file")
// POST /api/tickets
func (h *Handler) UploadTickets(c *gin.Context) {
	// chặn thân yêu cầu trước khi gin ghi tệp ra bộ nhớ hoặc đĩa tạm
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("upload rejected", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "tệp quá lớn"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "không tìm thấy tệp tải lên"})
		return
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "tệp quá lớn"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Warn("failed to open upload", zap.String("file", header.Filename), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": FileProcessingMessage})
		return
	}
	defer file.Close()

	tickets, err := h.session.LoadFile(header.Filename, file, header.Size)
	if err != nil {
		if session.IsFileProcessingError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": FileProcessingMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		FileName: tickets.Name,
		Count:    tickets.Count,
	})
}

package model

import "time"

// ImportStatus trạng thái nạp tệp
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportSuccess    ImportStatus = "success"
	ImportFailed     ImportStatus = "failed"
)

// ImportLog nhật ký một lần nạp tệp
type ImportLog struct {
	ID           int64        `json:"id"`
	FileName     string       `json:"fileName"`
	FileSize     int64        `json:"fileSize"`
	TicketCount  int          `json:"ticketCount"`
	Status       ImportStatus `json:"status"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}

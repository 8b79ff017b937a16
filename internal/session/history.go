package session

import (
	"encoding/json"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

const (
	// MaxHistory số bản ghi tối đa, bản ghi cũ nhất bị bỏ khi vượt quá
	MaxHistory = 50

	// HistoryKey key lưu lịch sử trong store
	HistoryKey = "check_history"
)

// History lịch sử tra cứu, mới nhất đứng đầu
type History struct {
	records []model.CheckRecord
}

// Prepend thêm bản ghi vào đầu và cắt còn MaxHistory
func (h *History) Prepend(record model.CheckRecord) {
	next := make([]model.CheckRecord, 0, min(len(h.records)+1, MaxHistory))
	next = append(next, record)
	next = append(next, h.records...)
	if len(next) > MaxHistory {
		next = next[:MaxHistory]
	}
	h.records = next
}

// Records trả về bản sao danh sách
func (h *History) Records() []model.CheckRecord {
	out := make([]model.CheckRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len số bản ghi hiện có
func (h *History) Len() int {
	return len(h.records)
}

// Reset xóa toàn bộ
func (h *History) Reset() {
	h.records = nil
}

func (h *History) encode() (string, error) {
	records := h.records
	if records == nil {
		records = []model.CheckRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeHistory phân tích dữ liệu đã lưu
// Dữ liệu hỏng hoặc không phải mảng thì trả về lịch sử rỗng
func decodeHistory(raw string) (*History, error) {
	var records []model.CheckRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return &History{}, err
	}
	if len(records) > MaxHistory {
		records = records[:MaxHistory]
	}
	return &History{records: records}, nil
}

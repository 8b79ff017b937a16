package model

import "time"

// CheckRecord một lần tra cứu, không thay đổi sau khi tạo
type CheckRecord struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`  // số gốc người dùng nhập (chưa chuẩn hóa)
	IsValid   bool      `json:"isValid"` // có nằm trong tập số vé hay không
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult kết quả tra cứu gần nhất (hiển thị toàn màn hình)
type CheckResult struct {
	Number  string `json:"number"`
	IsValid bool   `json:"isValid"`
}

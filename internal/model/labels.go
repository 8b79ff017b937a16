package model

const (
	DefaultMatchLabel   = "CHƯA BÁN - Quay tiếp"
	DefaultNoMatchLabel = "ĐÃ BÁN - Trúng giải"

	// Nhãn ngắn trong danh sách lịch sử
	MatchBadge   = "Chưa bán"
	NoMatchBadge = "Trúng giải"
)

// LabelConfig nội dung thông báo kết quả, chỉ có hiệu lực trong phiên hiện tại
type LabelConfig struct {
	Match   string `json:"match"`
	NoMatch string `json:"noMatch"`
}

// DefaultLabels nhãn mặc định
func DefaultLabels() LabelConfig {
	return LabelConfig{
		Match:   DefaultMatchLabel,
		NoMatch: DefaultNoMatchLabel,
	}
}

// WithDefaults thay giá trị rỗng bằng nhãn mặc định
func (l LabelConfig) WithDefaults() LabelConfig {
	if l.Match == "" {
		l.Match = DefaultMatchLabel
	}
	if l.NoMatch == "" {
		l.NoMatch = DefaultNoMatchLabel
	}
	return l
}

// For chọn nhãn theo kết quả tra cứu
func (l LabelConfig) For(isValid bool) string {
	if isValid {
		return l.Match
	}
	return l.NoMatch
}

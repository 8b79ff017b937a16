package model

import "sort"

// TicketSet tập số vé trích ra từ tệp đã tải lên
// Mỗi lần tải lên thành công sẽ thay thế toàn bộ, không cập nhật từng phần
type TicketSet struct {
	Name    string              `json:"fileName"`
	Count   int                 `json:"count"`
	Numbers map[string]struct{} `json:"-"`
}

// NewTicketSet tạo tập từ các số vé đã chuẩn hóa
func NewTicketSet(name string, numbers map[string]struct{}) *TicketSet {
	if numbers == nil {
		numbers = make(map[string]struct{})
	}
	return &TicketSet{
		Name:    name,
		Count:   len(numbers),
		Numbers: numbers,
	}
}

// Contains kiểm tra số đã chuẩn hóa có trong tập hay không
func (t *TicketSet) Contains(canonical string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Numbers[canonical]
	return ok
}

// Sorted trả về toàn bộ số vé theo thứ tự số học
func (t *TicketSet) Sorted() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Numbers))
	for n := range t.Numbers {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

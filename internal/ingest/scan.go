package ingest

import (
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// ExtractDigitRuns trả về mọi chuỗi chữ số liên tiếp dài nhất trong text
// Ví dụ: "Ticket #0042 won; ticket 17" -> ["0042", "17"]
func ExtractDigitRuns(text string) []string {
	return digitRun.FindAllString(text, -1)
}

// Normalize chuẩn hóa một chuỗi chữ số: bỏ các số 0 ở đầu
// Tương đương chuyển sang số nguyên rồi về chuỗi, nhưng không tràn số với chuỗi dài
func Normalize(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" && digits != "" {
		return "0"
	}
	return trimmed
}

// DigitsOnly giữ lại các ký tự chữ số (giống bộ lọc ở ô nhập)
func DigitsOnly(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// collect quét text và thêm các số đã chuẩn hóa vào tập
func collect(numbers map[string]struct{}, text string) {
	for _, run := range ExtractDigitRuns(text) {
		numbers[Normalize(run)] = struct{}{}
	}
}

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

// ErrFileProcessing lỗi duy nhất hiển thị cho người dùng: tệp hỏng hoặc không đọc được
var ErrFileProcessing = errors.New("file processing failed")

// SupportedExtensions các đuôi tệp được ô tải lên chấp nhận
var SupportedExtensions = []string{".txt", ".csv", ".xlsx", ".xls"}

// Mode chế độ phân tích tệp
type Mode int

const (
	ModeText Mode = iota
	ModeWorkbook
	ModeLegacyWorkbook
)

func (m Mode) String() string {
	switch m {
	case ModeWorkbook:
		return "xlsx"
	case ModeLegacyWorkbook:
		return "xls"
	default:
		return "text"
	}
}

// DetectMode chọn chế độ theo đuôi tệp, mặc định là văn bản
func DetectMode(name string) Mode {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ModeWorkbook
	case ".xls":
		return ModeLegacyWorkbook
	default:
		return ModeText
	}
}

// Parse đọc toàn bộ nội dung r và trích tập số vé
// Lỗi trả về luôn bọc ErrFileProcessing, không có kết quả dở dang
func Parse(name string, r io.Reader) (*model.TicketSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrFileProcessing, name, err)
	}

	numbers := make(map[string]struct{})
	switch DetectMode(name) {
	case ModeWorkbook:
		err = scanWorkbook(numbers, data)
	case ModeLegacyWorkbook:
		err = scanLegacyWorkbook(numbers, data)
	default:
		collect(numbers, string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileProcessing, name, err)
	}

	return model.NewTicketSet(name, numbers), nil
}

// ParseFile đọc tệp từ đĩa
func ParseFile(path string) (*model.TicketSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileProcessing, err)
	}
	defer f.Close()
	return Parse(filepath.Base(path), f)
}

// scanWorkbook duyệt mọi sheet, mọi ô của tệp xlsx
// Dùng giá trị thô của ô: ô số được chuyển thành chuỗi đúng như lưu trữ rồi mới quét
func scanWorkbook(numbers map[string]struct{}, data []byte) error {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	for _, sheet := range file.GetSheetList() {
		rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for r, row := range rows {
			for c, cell := range row {
				if cell == "" {
					continue
				}
				skip, err := isBoolOrError(file, sheet, c+1, r+1, cell)
				if err != nil {
					return err
				}
				if !skip {
					collect(numbers, cell)
				}
			}
		}
	}
	return nil
}

// isBoolOrError ô TRUE/FALSE (giá trị thô "1"/"0") hoặc ô lỗi (#DIV/0!) không mang số vé
// Chỉ tra kiểu ô khi giá trị thô có dạng đó
func isBoolOrError(file *excelize.File, sheet string, col, row int, raw string) (bool, error) {
	if raw != "0" && raw != "1" && !strings.HasPrefix(raw, "#") {
		return false, nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, err
	}
	cellType, err := file.GetCellType(sheet, name)
	if err != nil {
		return false, fmt.Errorf("read cell type %s!%s: %w", sheet, name, err)
	}
	return cellType == excelize.CellTypeBool || cellType == excelize.CellTypeError, nil
}

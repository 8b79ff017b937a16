package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// Mã bản ghi BIFF liên quan tới giá trị ô
const (
	recFormula  uint16 = 0x0006
	recFilePass uint16 = 0x002F
	recContinue uint16 = 0x003C
	recMulRK    uint16 = 0x00BD
	recRString  uint16 = 0x00D6
	recSST      uint16 = 0x00FC
	recLabelSST uint16 = 0x00FD
	recNumber   uint16 = 0x0203
	recLabel    uint16 = 0x0204
	recString   uint16 = 0x0207
	recRK       uint16 = 0x027E
	recBOF      uint16 = 0x0809
)

const biff8Version = 0x0600

var errEncryptedWorkbook = errors.New("workbook is password protected")

type biffRecord struct {
	id   uint16
	data []byte
}

// scanLegacyWorkbook xử lý định dạng BIFF (.xls)
// Lấy giá trị lưu trữ của ô, không áp định dạng hiển thị: ô số 2002 định dạng
// "000000" vẫn là 2002, ô công thức dùng kết quả đã tính sẵn
func scanLegacyWorkbook(numbers map[string]struct{}, data []byte) (err error) {
	// tệp hỏng không được làm sập tiến trình
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed xls: %v", r)
		}
	}()

	stream, err := readWorkbookStream(data)
	if err != nil {
		return err
	}
	records, err := splitRecords(stream)
	if err != nil {
		return err
	}

	biff8 := len(records[0].data) >= 2 && binary.LittleEndian.Uint16(records[0].data) == biff8Version

	var sst []string
	formulaString := false
	for i := 0; i < len(records); i++ {
		rec := records[i]
		switch rec.id {
		case recFilePass:
			return errEncryptedWorkbook

		case recSST:
			segments := [][]byte{rec.data}
			for i+1 < len(records) && records[i+1].id == recContinue {
				i++
				segments = append(segments, records[i].data)
			}
			if sst, err = readSST(segments); err != nil {
				return fmt.Errorf("read shared strings: %w", err)
			}

		case recLabelSST:
			if len(rec.data) >= 10 {
				if idx := int(binary.LittleEndian.Uint32(rec.data[6:])); idx < len(sst) {
					collect(numbers, sst[idx])
				}
			}

		case recLabel, recRString:
			if len(rec.data) > 6 {
				collect(numbers, shortString(rec.data[6:], biff8))
			}

		case recNumber:
			if len(rec.data) >= 14 {
				collect(numbers, formatNumber(math.Float64frombits(binary.LittleEndian.Uint64(rec.data[6:]))))
			}

		case recRK:
			if len(rec.data) >= 10 {
				collect(numbers, formatNumber(decodeRK(binary.LittleEndian.Uint32(rec.data[6:]))))
			}

		case recMulRK:
			// dòng, cột đầu, n cặp (xf, rk), cột cuối
			for off := 4; off+6 <= len(rec.data)-2; off += 6 {
				collect(numbers, formatNumber(decodeRK(binary.LittleEndian.Uint32(rec.data[off+2:]))))
			}

		case recFormula:
			formulaString = false
			if len(rec.data) < 14 {
				continue
			}
			result := rec.data[6:14]
			if result[6] == 0xFF && result[7] == 0xFF {
				// 0 chuỗi (ở bản ghi STRING ngay sau), 1 bool, 2 lỗi, 3 rỗng
				formulaString = result[0] == 0
				continue
			}
			collect(numbers, formatNumber(math.Float64frombits(binary.LittleEndian.Uint64(result))))

		case recString:
			if formulaString {
				collect(numbers, shortString(rec.data, biff8))
			}
			formulaString = false
		}
	}
	return nil
}

// readWorkbookStream lấy luồng Workbook (BIFF8) hoặc Book (BIFF5) trong tệp OLE2
func readWorkbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("read %s stream: %w", entry.Name, err)
		}
		return buf, nil
	}
	return nil, errors.New("workbook stream not found")
}

// splitRecords tách luồng thành các bản ghi (mã 2 byte, độ dài 2 byte, dữ liệu)
func splitRecords(stream []byte) ([]biffRecord, error) {
	var records []biffRecord
	for pos := 0; pos+4 <= len(stream); {
		id := binary.LittleEndian.Uint16(stream[pos:])
		size := int(binary.LittleEndian.Uint16(stream[pos+2:]))
		if pos+4+size > len(stream) {
			return nil, fmt.Errorf("record 0x%04X at offset %d truncated", id, pos)
		}
		records = append(records, biffRecord{id: id, data: stream[pos+4 : pos+4+size]})
		pos += 4 + size
	}
	if len(records) == 0 || records[0].id != recBOF {
		return nil, errors.New("workbook stream does not start with BOF")
	}
	return records, nil
}

// decodeRK số RK: 30 bit cao là số nguyên hoặc phần cao của float64, bit 0 là chia 100
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// formatNumber chuỗi của số như khi in giá trị ô: 2002 -> "2002", 42.5 -> "42.5"
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if abs := math.Abs(v); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// shortString chuỗi trong LABEL, RSTRING, STRING
// BIFF8 có byte cờ (bit 0: UTF-16), BIFF5 là chuỗi byte
func shortString(data []byte, biff8 bool) string {
	if len(data) < 2 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(data))
	data = data[2:]
	if biff8 {
		if len(data) == 0 {
			return ""
		}
		wide := data[0]&0x01 != 0
		data = data[1:]
		if wide {
			return decodeUTF16(data[:min(2*n, len(data)&^1)])
		}
	}
	return decodeLatin1(data[:min(n, len(data))])
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func decodeUTF16(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units))
}

// sstReader đọc bảng chuỗi dùng chung trải qua SST và các bản ghi CONTINUE
type sstReader struct {
	segments [][]byte
	seg      int
	pos      int
}

func (r *sstReader) left() int {
	return len(r.segments[r.seg]) - r.pos
}

func (r *sstReader) advance() bool {
	if r.seg+1 >= len(r.segments) {
		return false
	}
	r.seg++
	r.pos = 0
	return true
}

func (r *sstReader) exhausted() bool {
	return r.seg == len(r.segments)-1 && r.left() == 0
}

// take đọc n byte, được vắt qua ranh giới bản ghi
func (r *sstReader) take(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for n > 0 {
		if r.left() == 0 && !r.advance() {
			return nil, io.ErrUnexpectedEOF
		}
		k := min(n, r.left())
		out = append(out, r.segments[r.seg][r.pos:r.pos+k]...)
		r.pos += k
		n -= k
	}
	return out, nil
}

func (r *sstReader) skip(n int) error {
	for n > 0 {
		if r.left() == 0 && !r.advance() {
			return io.ErrUnexpectedEOF
		}
		k := min(n, r.left())
		r.pos += k
		n -= k
	}
	return nil
}

// text đọc một XLUnicodeRichExtendedString
// Khi ký tự bị cắt sang CONTINUE, bản ghi mới mở đầu bằng byte cờ của riêng nó
func (r *sstReader) text() (string, error) {
	head, err := r.take(3)
	if err != nil {
		return "", err
	}
	cch := int(binary.LittleEndian.Uint16(head))
	flags := head[2]

	var runs, ext int
	if flags&0x08 != 0 {
		b, err := r.take(2)
		if err != nil {
			return "", err
		}
		runs = int(binary.LittleEndian.Uint16(b))
	}
	if flags&0x04 != 0 {
		b, err := r.take(4)
		if err != nil {
			return "", err
		}
		ext = int(binary.LittleEndian.Uint32(b))
	}

	wide := flags&0x01 != 0
	var sb strings.Builder
	for cch > 0 {
		if r.left() == 0 {
			if !r.advance() || r.left() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			wide = r.segments[r.seg][0]&0x01 != 0
			r.pos = 1
			continue
		}
		width := 1
		if wide {
			width = 2
		}
		k := min(cch, r.left()/width)
		if k == 0 {
			return "", io.ErrUnexpectedEOF
		}
		chunk := r.segments[r.seg][r.pos : r.pos+k*width]
		if wide {
			sb.WriteString(decodeUTF16(chunk))
		} else {
			sb.WriteString(decodeLatin1(chunk))
		}
		r.pos += k * width
		cch -= k
	}

	if err := r.skip(4*runs + ext); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// readSST đọc toàn bộ bảng chuỗi dùng chung
func readSST(segments [][]byte) ([]string, error) {
	r := &sstReader{segments: segments}
	head, err := r.take(8)
	if err != nil {
		return nil, err
	}
	unique := int(binary.LittleEndian.Uint32(head[4:]))

	strs := make([]string, 0, min(unique, 1<<16))
	for i := 0; i < unique; i++ {
		// một số trình ghi khai báo số chuỗi lớn hơn thực tế
		if r.exhausted() {
			break
		}
		s, err := r.text()
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		strs = append(strs, s)
	}
	return strs, nil
}

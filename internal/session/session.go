package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/ingest"
	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

// Store phần lưu trữ mà phiên cần: key/value cho lịch sử và nhật ký nạp tệp
type Store interface {
	GetConfig(key string) (string, error)
	SetConfig(key, value string) error
	DeleteConfig(key string) error
	CreateImportLog(filename string, fileSize int64, startedAt time.Time) (int64, error)
	FinishImportLog(id int64, ticketCount int, status model.ImportStatus, errorMessage string, completedAt time.Time) error
}

// Session trạng thái của phiên làm việc: tập số vé, lịch sử, nhãn hiển thị
// Mọi thao tác đều đi qua một mutex nên an toàn khi gọi từ nhiều handler
type Session struct {
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	tickets *model.TicketSet
	history *History
	labels  model.LabelConfig
	last    *model.CheckResult

	now   func() time.Time
	newID func() string
}

// Option tùy chọn khi tạo Session
type Option func(*Session)

// WithClock thay nguồn thời gian (dùng trong test)
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator thay bộ sinh id (dùng trong test)
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New tạo phiên và khôi phục lịch sử đã lưu
func New(store Store, labels model.LabelConfig, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		store:   store,
		logger:  logger.Named("session"),
		history: &History{},
		labels:  labels.WithDefaults(),
		now:     time.Now,
		newID:   newRecordID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = s.restoreHistory()
	return s
}

// newRecordID id theo thời gian tạo (UUIDv7), tăng dần và không trùng
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return id.String()
}

func (s *Session) restoreHistory() *History {
	raw, err := s.store.GetConfig(HistoryKey)
	if err != nil {
		s.logger.Debug("no persisted history", zap.Error(err))
		return &History{}
	}
	history, err := decodeHistory(raw)
	if err != nil {
		s.logger.Debug("discarding corrupted history", zap.Error(err))
	}
	return history
}

// persistLocked ghi toàn bộ lịch sử sau mỗi thay đổi
func (s *Session) persistLocked() {
	data, err := s.history.encode()
	if err == nil {
		err = s.store.SetConfig(HistoryKey, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist history", zap.Error(err))
	}
}

// Load cài tập số vé mới, thay thế toàn bộ tập cũ
func (s *Session) Load(tickets *model.TicketSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
}

// LoadFile phân tích tệp và cài đặt kết quả
// Khi lỗi, tập cũ được giữ nguyên và lỗi trả về bọc ingest.ErrFileProcessing
func (s *Session) LoadFile(name string, r io.Reader, size int64) (*model.TicketSet, error) {
	logID, err := s.store.CreateImportLog(name, size, s.now())
	if err != nil {
		s.logger.Warn("failed to create import log", zap.String("file", name), zap.Error(err))
	}

	tickets, parseErr := ingest.Parse(name, r)

	status, count, message := model.ImportSuccess, 0, ""
	if parseErr != nil {
		status, message = model.ImportFailed, parseErr.Error()
	} else {
		count = tickets.Count
	}
	if logID > 0 {
		if err := s.store.FinishImportLog(logID, count, status, message, s.now()); err != nil {
			s.logger.Warn("failed to finish import log", zap.Int64("id", logID), zap.Error(err))
		}
	}

	if parseErr != nil {
		s.logger.Info("ticket file rejected",
			zap.String("file", name),
			zap.String("mode", ingest.DetectMode(name).String()),
			zap.Error(parseErr),
		)
		return nil, parseErr
	}

	s.Load(tickets)
	s.logger.Info("ticket file loaded",
		zap.String("file", name),
		zap.String("mode", ingest.DetectMode(name).String()),
		zap.Int("count", tickets.Count),
	)
	return tickets, nil
}

// LoadPath nạp tệp từ đĩa
func (s *Session) LoadPath(path string) (*model.TicketSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrFileProcessing, err)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return s.LoadFile(filepath.Base(path), f, size)
}

// Tickets tập số vé hiện tại, nil nếu chưa nạp
func (s *Session) Tickets() *model.TicketSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets
}

// Check tra cứu một số
// Trả về false (không làm gì) khi chưa nạp tệp hoặc đầu vào rỗng
func (s *Session) Check(raw string) (model.CheckResult, bool) {
	number := ingest.DigitsOnly(strings.TrimSpace(raw))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tickets == nil || number == "" {
		return model.CheckResult{}, false
	}

	result := model.CheckResult{
		Number:  number,
		IsValid: s.tickets.Contains(ingest.Normalize(number)),
	}
	s.last = &result

	s.history.Prepend(model.CheckRecord{
		ID:        s.newID(),
		Number:    number,
		IsValid:   result.IsValid,
		Timestamp: s.now(),
	})
	s.persistLocked()

	return result, true
}

// Last kết quả tra cứu gần nhất
func (s *Session) Last() (model.CheckResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return model.CheckResult{}, false
	}
	return *s.last, true
}

// History bản sao lịch sử, mới nhất đứng đầu
func (s *Session) History() []model.CheckRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Records()
}

// ClearHistory xóa lịch sử trong bộ nhớ và trong store
func (s *Session) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Reset()
	if err := s.store.DeleteConfig(HistoryKey); err != nil {
		return fmt.Errorf("failed to remove persisted history: %w", err)
	}
	return nil
}

// Labels nhãn hiển thị hiện tại
func (s *Session) Labels() model.LabelConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels
}

// SetLabels cập nhật nhãn đúng như người dùng nhập, kể cả chuỗi rỗng
// Mặc định chỉ áp khi tạo phiên
func (s *Session) SetLabels(labels model.LabelConfig) model.LabelConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = labels
	return s.labels
}

// IsFileProcessingError lỗi có phải lỗi xử lý tệp hay không
func IsFileProcessingError(err error) bool {
	return errors.Is(err, ingest.ErrFileProcessing)
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

// CreateImportLog tạo nhật ký nạp tệp, trả về id
func (s *Store) CreateImportLog(filename string, fileSize int64, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, file_size, status, started_at)
		VALUES (?, ?, ?, ?)
	`, filename, fileSize, string(model.ImportProcessing), startedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog cập nhật kết quả nạp tệp
func (s *Store) FinishImportLog(id int64, ticketCount int, status model.ImportStatus, errorMessage string, completedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			ticket_count = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, ticketCount, string(status), errorMessage, completedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs liệt kê nhật ký mới nhất trước
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, filename, file_size, ticket_count, status, error_message, started_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.ImportLog, 0, limit)
	for rows.Next() {
		var (
			entry       model.ImportLog
			status      string
			completedAt sql.NullTime
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.FileName,
			&entry.FileSize,
			&entry.TicketCount,
			&status,
			&entry.ErrorMessage,
			&entry.StartedAt,
			&completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		entry.Status = model.ImportStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			entry.CompletedAt = &t
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// busyTimeoutMillis thời gian chờ khóa khi serve và check cùng ghi một tệp
const busyTimeoutMillis = 5000

// Store lớp lưu trữ SQLite: lịch sử tra cứu và nhật ký nạp tệp
type Store struct {
	db   *sql.DB
	path string
}

// dsn tệp SQLite ở chế độ WAL, chờ khóa thay vì trả SQLITE_BUSY ngay
func dsn(dbPath string) string {
	return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", dbPath, busyTimeoutMillis)
}

// New mở (hoặc tạo) kiemso.db và áp schema
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path đường dẫn tệp cơ sở dữ liệu
func (s *Store) Path() string {
	return s.path
}

// Close đóng kết nối
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

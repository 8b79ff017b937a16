package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "data", "kiemso.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestNew_SharedFileBetweenProcesses(t *testing.T) {
	t.Parallel()

	// máy chủ web và lệnh check mở cùng một kiemso.db
	path := filepath.Join(t.TempDir(), "kiemso.db")
	server, err := New(path)
	if err != nil {
		t.Fatalf("open first store: %v", err)
	}
	defer server.Close()
	cli, err := New(path)
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	defer cli.Close()

	if server.Path() != path {
		t.Fatalf("Path()=%q, want %q", server.Path(), path)
	}

	var mode string
	if err := server.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode=%q, want wal", mode)
	}

	if err := cli.SetConfig("check_history", `[{"id":"cli"}]`); err != nil {
		t.Fatalf("SetConfig from second store: %v", err)
	}
	got, err := server.GetConfig("check_history")
	if err != nil {
		t.Fatalf("GetConfig from first store: %v", err)
	}
	if got != `[{"id":"cli"}]` {
		t.Fatalf("GetConfig=%q", got)
	}
	if err := server.SetConfig("check_history", "[]"); err != nil {
		t.Fatalf("SetConfig from first store: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)

	if _, err := st.GetConfig("check_history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.SetConfig("check_history", "[]"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := st.SetConfig("check_history", `[{"id":"1"}]`); err != nil {
		t.Fatalf("SetConfig overwrite: %v", err)
	}

	got, err := st.GetConfig("check_history")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if got != `[{"id":"1"}]` {
		t.Fatalf("GetConfig=%q", got)
	}

	if err := st.DeleteConfig("check_history"); err != nil {
		t.Fatalf("DeleteConfig: %v", err)
	}
	if _, err := st.GetConfig("check_history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteConfig("check_history"); err != nil {
		t.Fatalf("DeleteConfig on missing key: %v", err)
	}
}

func TestImportLogs(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	okID, err := st.CreateImportLog("ve.xlsx", 2048, start)
	if err != nil {
		t.Fatalf("CreateImportLog: %v", err)
	}
	if err := st.FinishImportLog(okID, 120, model.ImportSuccess, "", start.Add(time.Second)); err != nil {
		t.Fatalf("FinishImportLog: %v", err)
	}

	badID, err := st.CreateImportLog("hong.xls", 10, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("CreateImportLog: %v", err)
	}
	if err := st.FinishImportLog(badID, 0, model.ImportFailed, "file processing failed", start.Add(time.Minute)); err != nil {
		t.Fatalf("FinishImportLog: %v", err)
	}

	logs, err := st.ListImportLogs(10)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}

	latest := logs[0]
	if latest.ID != badID || latest.Status != model.ImportFailed || latest.ErrorMessage == "" {
		t.Fatalf("unexpected latest log: %+v", latest)
	}
	if latest.CompletedAt == nil {
		t.Fatalf("latest log should be completed")
	}

	first := logs[1]
	if first.FileName != "ve.xlsx" || first.FileSize != 2048 || first.TicketCount != 120 {
		t.Fatalf("unexpected first log: %+v", first)
	}
	if !first.StartedAt.Equal(start) {
		t.Fatalf("StartedAt=%v, want %v", first.StartedAt, start)
	}
}

package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/manhtrinhmkt-stack/kiemso/internal/ingest"
	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

type memStore struct {
	mu      sync.Mutex
	values  map[string]string
	imports []model.ImportLog
	setErr  error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) GetConfig(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memStore) SetConfig(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memStore) DeleteConfig(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memStore) CreateImportLog(filename string, fileSize int64, startedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports = append(m.imports, model.ImportLog{
		ID:        int64(len(m.imports) + 1),
		FileName:  filename,
		FileSize:  fileSize,
		Status:    model.ImportProcessing,
		StartedAt: startedAt,
	})
	return int64(len(m.imports)), nil
}

func (m *memStore) FinishImportLog(id int64, ticketCount int, status model.ImportStatus, errorMessage string, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &m.imports[id-1]
	entry.TicketCount = ticketCount
	entry.Status = status
	entry.ErrorMessage = errorMessage
	entry.CompletedAt = &completedAt
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

func newTestSession(t *testing.T, st *memStore) *Session {
	t.Helper()

	base := time.Date(2026, 2, 17, 19, 0, 0, 0, time.UTC)
	tick := 0
	return New(st, model.LabelConfig{}, nil,
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			return fmt.Sprintf("id-%03d", tick)
		}),
	)
}

func loadText(t *testing.T, s *Session, content string) *model.TicketSet {
	t.Helper()

	set, err := s.LoadFile("ve.txt", strings.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return set
}

func TestCheck_TicketSentenceScenario(t *testing.T) {
	st := newMemStore()
	s := newTestSession(t, st)

	set := loadText(t, s, "Ticket #0042 won; ticket 17 lost.")
	if set.Count != 2 {
		t.Fatalf("Count=%d, want 2", set.Count)
	}

	cases := []struct {
		input string
		want  bool
	}{
		{"42", true},
		{"0042", true},
		{"43", false},
		{"17", true},
		{"017", true},
	}
	for _, tc := range cases {
		res, ok := s.Check(tc.input)
		if !ok {
			t.Fatalf("Check(%q) rejected", tc.input)
		}
		if res.IsValid != tc.want {
			t.Fatalf("Check(%q).IsValid=%v, want %v", tc.input, res.IsValid, tc.want)
		}
		if res.Number != tc.input {
			t.Fatalf("Check(%q).Number=%q, raw input should be kept", tc.input, res.Number)
		}
	}

	history := s.History()
	if len(history) != len(cases) {
		t.Fatalf("history len=%d, want %d", len(history), len(cases))
	}
	if history[0].Number != "017" || history[len(history)-1].Number != "42" {
		t.Fatalf("history should be newest first: %+v", history)
	}

	last, ok := s.Last()
	if !ok || last.Number != "017" || !last.IsValid {
		t.Fatalf("unexpected last result: %+v ok=%v", last, ok)
	}
}

func TestCheck_LeadingZerosBothWays(t *testing.T) {
	s := newTestSession(t, newMemStore())
	loadText(t, s, "0007\n8")

	for _, q := range []string{"7", "007", "0008", "8"} {
		res, ok := s.Check(q)
		if !ok || !res.IsValid {
			t.Fatalf("Check(%q) should match, got %+v ok=%v", q, res, ok)
		}
	}
}

func TestCheck_RejectsWithoutTicketsOrInput(t *testing.T) {
	st := newMemStore()
	s := newTestSession(t, st)

	if _, ok := s.Check("42"); ok {
		t.Fatalf("Check should be a no-op before a file is loaded")
	}

	loadText(t, s, "42")
	for _, q := range []string{"", "   ", "abc"} {
		if _, ok := s.Check(q); ok {
			t.Fatalf("Check(%q) should be a no-op", q)
		}
	}
	if n := len(s.History()); n != 0 {
		t.Fatalf("history should stay empty, got %d", n)
	}
	if st.has(HistoryKey) {
		t.Fatalf("no history should be persisted for rejected checks")
	}
}

func TestCheck_HistoryCapEvictsOldest(t *testing.T) {
	st := newMemStore()
	s := newTestSession(t, st)
	loadText(t, s, "1 2 3")

	for i := 1; i <= MaxHistory+1; i++ {
		if _, ok := s.Check(fmt.Sprintf("%d", i)); !ok {
			t.Fatalf("check %d rejected", i)
		}
	}

	history := s.History()
	if len(history) != MaxHistory {
		t.Fatalf("history len=%d, want %d", len(history), MaxHistory)
	}
	if history[0].Number != "51" {
		t.Fatalf("newest=%q, want 51", history[0].Number)
	}
	if history[MaxHistory-1].Number != "2" {
		t.Fatalf("oldest=%q, want 2 (1 should be evicted)", history[MaxHistory-1].Number)
	}

	restored := New(st, model.LabelConfig{}, nil)
	if diff := cmp.Diff(history, restored.History()); diff != "" {
		t.Fatalf("restored history mismatch (-want +got):\n%s", diff)
	}
}

func TestClearHistory_RemovesPersistedEntry(t *testing.T) {
	st := newMemStore()
	s := newTestSession(t, st)
	loadText(t, s, "5")
	s.Check("5")

	if !st.has(HistoryKey) {
		t.Fatalf("history should be persisted after a check")
	}
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(s.History()) != 0 {
		t.Fatalf("in-memory history should be empty")
	}
	if st.has(HistoryKey) {
		t.Fatalf("persisted history should be removed")
	}

	if n := len(New(st, model.LabelConfig{}, nil).History()); n != 0 {
		t.Fatalf("restore after clear should be empty, got %d", n)
	}
}

func TestRestore_CorruptedHistoryFallsBackToEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"1"}`, `"text"`, "null", ""} {
		st := newMemStore()
		st.values[HistoryKey] = raw

		s := New(st, model.LabelConfig{}, nil)
		if n := len(s.History()); n != 0 {
			t.Fatalf("raw %q: expected empty history, got %d", raw, n)
		}
	}
}

func TestRestore_TruncatesOversizedHistory(t *testing.T) {
	st := newMemStore()
	records := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		records = append(records, fmt.Sprintf(`{"id":"%d","number":"%d","isValid":true,"timestamp":"2026-02-17T19:00:00Z"}`, i, i))
	}
	st.values[HistoryKey] = "[" + strings.Join(records, ",") + "]"

	s := New(st, model.LabelConfig{}, nil)
	history := s.History()
	if len(history) != MaxHistory {
		t.Fatalf("history len=%d, want %d", len(history), MaxHistory)
	}
	if history[0].ID != "0" {
		t.Fatalf("first record id=%q, want 0", history[0].ID)
	}
}

func TestCheck_PersistFailureDoesNotFail(t *testing.T) {
	st := newMemStore()
	st.setErr = errors.New("disk full")
	s := newTestSession(t, st)
	loadText(t, s, "9")

	res, ok := s.Check("9")
	if !ok || !res.IsValid {
		t.Fatalf("check should still succeed: %+v ok=%v", res, ok)
	}
	if len(s.History()) != 1 {
		t.Fatalf("in-memory history should be updated")
	}
}

func TestLoadFile_FailureKeepsPreviousSet(t *testing.T) {
	st := newMemStore()
	s := newTestSession(t, st)
	loadText(t, s, "100")

	_, err := s.LoadFile("hong.xlsx", strings.NewReader("garbage"), 7)
	if !IsFileProcessingError(err) {
		t.Fatalf("expected file processing error, got %v", err)
	}

	if got := s.Tickets(); got == nil || got.Name != "ve.txt" {
		t.Fatalf("previous ticket set should stay installed, got %+v", got)
	}
	if res, ok := s.Check("100"); !ok || !res.IsValid {
		t.Fatalf("previous set should still answer checks")
	}

	if len(st.imports) != 2 {
		t.Fatalf("expected 2 import logs, got %d", len(st.imports))
	}
	if st.imports[0].Status != model.ImportSuccess || st.imports[0].TicketCount != 1 {
		t.Fatalf("unexpected first import log: %+v", st.imports[0])
	}
	if st.imports[1].Status != model.ImportFailed || st.imports[1].ErrorMessage == "" {
		t.Fatalf("unexpected failed import log: %+v", st.imports[1])
	}
}

func TestLoadFile_WorkbookReplacesSet(t *testing.T) {
	s := newTestSession(t, newMemStore())
	loadText(t, s, "1")

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })
	for i, v := range []interface{}{"A1001", 2002, "no-digits-here"} {
		if err := wb.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+1), v); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	set, err := s.LoadFile("ve.xlsx", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"1001", "2002"}, set.Sorted()); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}
	if res, _ := s.Check("1"); res.IsValid {
		t.Fatalf("old set should be replaced")
	}
}

func TestLoadPath_MissingFile(t *testing.T) {
	s := newTestSession(t, newMemStore())
	if _, err := s.LoadPath("/nonexistent/ve.txt"); !errors.Is(err, ingest.ErrFileProcessing) {
		t.Fatalf("expected ErrFileProcessing, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	s := New(newMemStore(), model.LabelConfig{Match: "OK"}, nil)

	got := s.Labels()
	if got.Match != "OK" || got.NoMatch != model.DefaultNoMatchLabel {
		t.Fatalf("unexpected initial labels: %+v", got)
	}

	got = s.SetLabels(model.LabelConfig{Match: "", NoMatch: "Hết"})
	if got.Match != "" || got.NoMatch != "Hết" {
		t.Fatalf("unexpected labels after set: %+v", got)
	}
	if got.For(true) != "" || got.For(false) != "Hết" {
		t.Fatalf("For() picked wrong label")
	}
}

func TestSetLabels_ClearedLabelStaysEmpty(t *testing.T) {
	s := New(newMemStore(), model.LabelConfig{}, nil)
	if got := s.Labels(); got != model.DefaultLabels() {
		t.Fatalf("new session should start with default labels, got %+v", got)
	}

	s.SetLabels(model.LabelConfig{Match: "", NoMatch: ""})
	if got := s.Labels(); got.Match != "" || got.NoMatch != "" {
		t.Fatalf("cleared labels were restored: %+v", got)
	}

	if got := s.Labels().For(true); got != "" {
		t.Fatalf("label=%q, want empty", got)
	}
}

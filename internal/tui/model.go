package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manhtrinhmkt-stack/kiemso/internal/ingest"
	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
	"github.com/manhtrinhmkt-stack/kiemso/internal/session"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Model giao diện tra cứu toàn màn hình trên terminal
type Model struct {
	session *session.Session
	keys    KeyMap
	styles  styles
	input   textinput.Model

	width  int
	height int
	status string
}

// NewModel tạo model gắn với phiên
func NewModel(sess *session.Session) Model {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 32
	input.Width = 24
	input.Focus()

	m := Model{
		session: sess,
		keys:    DefaultKeyMap,
		styles:  newStyles(DefaultTheme),
		input:   input,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.refreshPlaceholder()
	return m
}

func (m *Model) refreshPlaceholder() {
	if m.session.Tickets() == nil {
		m.input.Placeholder = "CHƯA NẠP DỮ LIỆU..."
	} else {
		m.input.Placeholder = "NHẬP MÃ SỐ VÉ..."
	}
}

// Init bubbletea
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update bubbletea
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.ClearHistory):
			if err := m.session.ClearHistory(); err != nil {
				m.status = fmt.Sprintf("Không xóa được lịch sử: %v", err)
			} else {
				m.status = "Đã xóa lịch sử"
			}
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			return m.submit(), nil
		}

		// ô nhập chỉ nhận chữ số
		if msg.Type == tea.KeyRunes {
			digits := []rune(ingest.DigitsOnly(string(msg.Runes)))
			if len(digits) == 0 {
				return m, nil
			}
			msg.Runes = digits
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() Model {
	m.refreshPlaceholder()
	if m.session.Tickets() == nil {
		m.status = "Chưa nạp danh sách vé"
		return m
	}
	if _, ok := m.session.Check(m.input.Value()); !ok {
		return m
	}
	m.status = ""
	m.input.Reset()
	return m
}

// View bubbletea
func (m Model) View() string {
	header := m.renderHeader()
	inputLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.styles.input.Render(m.input.View()))

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(inputLine) - 2
	if bodyHeight < 6 {
		bodyHeight = 6
	}
	leftWidth := m.width * 7 / 12
	rightWidth := m.width - leftWidth - 1

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderResult(leftWidth, bodyHeight),
		" ",
		m.renderHistory(rightWidth, bodyHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, inputLine, body, m.renderFooter())
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render("XUÂN PHÚC LỘC HỒNG ÂN")
	info := "Chưa nạp dữ liệu"
	if tickets := m.session.Tickets(); tickets != nil {
		info = fmt.Sprintf("%s · %d mã đã nạp", tickets.Name, tickets.Count)
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.styles.muted.Render(info)),
	)
}

func (m Model) renderResult(width, height int) string {
	// trừ phần viền
	innerWidth, innerHeight := max(width-2, 1), max(height-2, 1)

	last, ok := m.session.Last()
	if !ok {
		return m.styles.emptyBox.Width(innerWidth).Height(innerHeight).Render("🎟")
	}

	labels := m.session.Labels()
	style := m.styles.noMatchBox
	if last.IsValid {
		style = m.styles.matchBox
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		last.Number,
		"",
		strings.ToUpper(labels.For(last.IsValid)),
	)
	return style.Width(innerWidth).Height(innerHeight).Render(content)
}

func (m Model) renderHistory(width, height int) string {
	innerWidth, innerHeight := max(width-4, 1), max(height-2, 1)

	lines := []string{m.styles.title.Render("LỊCH SỬ")}
	history := m.session.History()
	if len(history) == 0 {
		lines = append(lines, m.styles.muted.Render("Chưa có mã số nào"))
	}
	for _, record := range history {
		if len(lines) >= innerHeight {
			break
		}
		lines = append(lines, m.renderHistoryLine(record, innerWidth))
	}

	return m.styles.historyBox.Width(innerWidth).Height(innerHeight).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHistoryLine(record model.CheckRecord, width int) string {
	badge := m.styles.noMatchBadge.Render(model.NoMatchBadge)
	if record.IsValid {
		badge = m.styles.matchBadge.Render(model.MatchBadge)
	}
	left := fmt.Sprintf("%s  %s", record.Number, m.styles.muted.Render(record.Timestamp.Local().Format("15:04:05")))
	gap := width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + badge
}

func (m Model) renderFooter() string {
	help := fmt.Sprintf("%s %s · %s %s · %s %s",
		m.keys.Submit.Help().Key, m.keys.Submit.Help().Desc,
		m.keys.ClearHistory.Help().Key, m.keys.ClearHistory.Help().Desc,
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc,
	)
	if m.status != "" {
		return m.styles.status.Render(m.status) + "  " + m.styles.muted.Render(help)
	}
	return m.styles.muted.Render(help)
}

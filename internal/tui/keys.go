package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap phím tắt của giao diện terminal
type KeyMap struct {
	Submit       key.Binding
	ClearHistory key.Binding
	Quit         key.Binding
}

// DefaultKeyMap phím tắt mặc định. Không dùng phím chữ vì ô nhập chỉ nhận chữ số
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "tra cứu"),
	),
	ClearHistory: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "xóa lịch sử"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "thoát"),
	),
}

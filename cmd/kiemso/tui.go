package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tui --file PATH",
		Short: "Giao diện tra cứu toàn màn hình trên terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// log ra stderr sẽ làm hỏng màn hình thay thế
			a, err := openApp(opts, zap.NewNop())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.session.LoadPath(file); err != nil {
				return err
			}

			program := tea.NewProgram(tui.NewModel(a.session), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "tệp danh sách vé")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

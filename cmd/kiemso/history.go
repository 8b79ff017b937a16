package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Xem hoặc xóa lịch sử tra cứu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				if err := a.session.ClearHistory(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Đã xóa lịch sử")
				return nil
			}

			history := a.session.History()
			if len(history) == 0 {
				fmt.Fprintln(out, "Chưa có mã số nào")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, record := range history {
				badge := model.NoMatchBadge
				if record.IsValid {
					badge = model.MatchBadge
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", record.Timestamp.Local().Format("2006-01-02 15:04:05"), record.Number, badge)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "xóa toàn bộ lịch sử")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manhtrinhmkt-stack/kiemso/internal/ingest"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check --file PATH NUMBER...",
		Short: "Tra cứu một hoặc nhiều số",
		Long: `Nạp danh sách vé rồi tra cứu từng số, mỗi số in một dòng.
Kết quả được ghi vào lịch sử. Mã thoát 1 nếu có số không nằm trong danh sách.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.session.LoadPath(file); err != nil {
				return err
			}

			labels := a.session.Labels()
			out := cmd.OutOrStdout()
			missed := false
			for _, arg := range args {
				result, ok := a.session.Check(arg)
				if !ok {
					fmt.Fprintf(out, "%s\t(bỏ qua: không có chữ số)\n", arg)
					continue
				}
				if !result.IsValid {
					missed = true
				}
				fmt.Fprintf(out, "%s\t%s\n", result.Number, labels.For(result.IsValid))
			}

			if missed {
				return errNoMatch
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "tệp danh sách vé ("+fmt.Sprint(ingest.SupportedExtensions)+")")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Tạo hoặc xem tệp cấu hình",
	}
	cmd.AddCommand(newConfigInitCmd(opts), newConfigShowCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Ghi config.toml với giá trị mặc định",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s đã tồn tại (dùng --force để ghi đè)", path)
			}

			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			opts.logger.Info("config written", zap.String("path", path), zap.Bool("force", force))
			fmt.Fprintf(cmd.OutOrStdout(), "Đã ghi %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "ghi đè tệp đã có")
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "In cấu hình đang có hiệu lực",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info := loadConfig(opts, opts.logger)
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", info.Path)
			_, err = out.Write(data)
			return err
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/server"
	"github.com/manhtrinhmkt-stack/kiemso/internal/util"
	"github.com/manhtrinhmkt-stack/kiemso/internal/watch"
)

type serveOptions struct {
	port      int
	file      string
	watch     bool
	noBrowser bool
	dev       bool
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	serveOpts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Chạy giao diện web",
		Long: `Chạy máy chủ cục bộ và mở giao diện tra cứu trên trình duyệt.

Ví dụ:
  kiemso serve
  kiemso serve --file ve.xlsx --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serveOpts)
		},
	}

	cmd.Flags().IntVar(&serveOpts.port, "port", 0, "cổng dịch vụ (chỉ áp dụng khi config.toml không khai báo port)")
	cmd.Flags().StringVar(&serveOpts.file, "file", "", "nạp sẵn danh sách vé từ tệp")
	cmd.Flags().BoolVar(&serveOpts.watch, "watch", false, "tự nạp lại khi tệp --file thay đổi")
	cmd.Flags().BoolVar(&serveOpts.noBrowser, "no-browser", false, "không tự mở trình duyệt")
	cmd.Flags().BoolVar(&serveOpts.dev, "dev", false, "chế độ phát triển")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, serveOpts *serveOptions) error {
	a, err := openApp(opts, opts.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if serveOpts.port > 0 && !a.info.PortSpecified {
		cfg.Server.Port = serveOpts.port
	}
	if serveOpts.dev {
		cfg.Server.DevMode = true
	}
	if serveOpts.noBrowser {
		cfg.Server.OpenBrowser = false
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "==========================================")
	fmt.Fprintln(out, "  Kiểm số - Xuân Phúc Lộc Hồng Ân")
	fmt.Fprintln(out, "==========================================")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveOpts.file != "" {
		tickets, err := a.session.LoadPath(serveOpts.file)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Đã nạp %d mã từ %s\n", tickets.Count, tickets.Name)

		if serveOpts.watch {
			w, err := watch.New(serveOpts.file, func(path string) error {
				_, err := a.session.LoadPath(path)
				return err
			}, a.logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()
		}
	}

	srv := server.NewServer(cfg, a.store, a.session, a.logger)
	url := util.LocalURL(cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Fprintf(out, "Đang mở trình duyệt: %s\n", url)
		if err := util.NewLauncher(a.logger).Open(url); err != nil {
			fmt.Fprintf(out, "Không mở được trình duyệt, hãy truy cập: %s\n", url)
		}
	} else {
		fmt.Fprintf(out, "Truy cập: %s\n", url)
	}
	fmt.Fprintln(out, "\nNhấn Ctrl+C để dừng...")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\nĐang dừng dịch vụ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown failed", zap.Error(err))
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manhtrinhmkt-stack/kiemso/internal/config"
	"github.com/manhtrinhmkt-stack/kiemso/internal/logging"
	"github.com/manhtrinhmkt-stack/kiemso/internal/session"
	"github.com/manhtrinhmkt-stack/kiemso/internal/store"
)

// errNoMatch ít nhất một số không có trong danh sách (mã thoát 1, không in lỗi)
var errNoMatch = errors.New("one or more numbers not found")

type rootOptions struct {
	verbose    bool
	configPath string
	dataDir    string

	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNoMatch) {
			fmt.Fprintf(os.Stderr, "lỗi: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "kiemso",
		Short: "Kiểm tra số vé trong danh sách đã nạp",
		Long: `kiemso nạp danh sách số vé từ tệp .txt/.csv/.xlsx/.xls rồi tra cứu
từng số xem có trong danh sách hay không. Lịch sử 50 lần tra cứu gần nhất
được lưu lại giữa các lần chạy.

Chạy không tham số để mở giao diện web trên trình duyệt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, &serveOptions{})
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "ghi log mức debug")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "đường dẫn config.toml (mặc định: cạnh tệp thực thi)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "thư mục dữ liệu (ghi đè tệp cấu hình)")

	root.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newHistoryCmd(opts),
		newTUICmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// app các thành phần dùng chung giữa các lệnh
type app struct {
	cfg     *config.AppConfig
	info    config.LoadConfigInfo
	store   *store.Store
	session *session.Session
	logger  *zap.Logger
}

// resolvedConfigPath đường dẫn --config, mặc định cạnh tệp thực thi
func (o *rootOptions) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig nạp cấu hình rồi áp --data-dir
// Tệp hỏng chỉ ghi cảnh báo và dùng cấu hình mặc định
func loadConfig(opts *rootOptions, logger *zap.Logger) (*config.AppConfig, config.LoadConfigInfo) {
	configPath := opts.resolvedConfigPath()
	cfg, info, err := config.LoadConfigFrom(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.String("path", configPath), zap.Error(err))
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{Path: configPath}
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	return cfg, info
}

// openApp nạp cấu hình, mở store và khôi phục phiên
func openApp(opts *rootOptions, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, info := loadConfig(opts, logger)

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logger.Debug("data dir ready", zap.String("path", dataDir))

	st, err := store.New(config.DatabasePath(cfg))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		info:    info,
		store:   st,
		session: session.New(st, cfg.SessionLabels(), logger),
		logger:  logger,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
}

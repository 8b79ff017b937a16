package util

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// StartFunc khởi chạy tiến trình, không chờ kết thúc
type StartFunc func(name string, args ...string) error

func startProcess(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher mở giao diện web trên trình duyệt của máy
type Launcher struct {
	goos   string
	start  StartFunc
	logger *zap.Logger
}

// NewLauncher launcher cho hệ điều hành hiện tại
func NewLauncher(logger *zap.Logger) *Launcher {
	return newLauncher(runtime.GOOS, startProcess, logger)
}

func newLauncher(goos string, start StartFunc, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{goos: goos, start: start, logger: logger.Named("browser")}
}

// browserCommands các lệnh mở url theo thứ tự ưu tiên
// Windows dùng rundll32 + url.dll trước, chạy được cả trên Windows 7
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	case "linux":
		cmds := [][]string{{"xdg-open", url}}
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, url})
		}
		return cmds
	default:
		return [][]string{{"xdg-open", url}}
	}
}

// Open thử lần lượt từng lệnh tới khi có lệnh khởi chạy được
func (l *Launcher) Open(url string) error {
	var errs []error
	for _, argv := range browserCommands(l.goos, url) {
		err := l.start(argv[0], argv[1:]...)
		if err == nil {
			l.logger.Debug("browser opened", zap.String("command", argv[0]), zap.String("url", url))
			return nil
		}
		l.logger.Debug("browser command failed", zap.String("command", argv[0]), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", argv[0], err))
	}
	return fmt.Errorf("open %s: %w", url, errors.Join(errs...))
}

// LocalURL địa chỉ truy cập giao diện trên máy
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

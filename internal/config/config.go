package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

// AppConfig cấu hình ứng dụng
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Upload UploadConfig `toml:"upload"`
	Labels LabelsConfig `toml:"labels"`
}

// ServerConfig cấu hình máy chủ
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig cấu hình dữ liệu
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// UploadConfig giới hạn tệp tải lên
type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// LabelsConfig nhãn khởi tạo cho mỗi phiên
type LabelsConfig struct {
	Match   string `toml:"match"`
	NoMatch string `toml:"no_match"`
}

// LoadConfigInfo thông tin phụ khi nạp cấu hình
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig cấu hình mặc định
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Upload: UploadConfig{
			MaxBytes: 32 << 20,
		},
		Labels: LabelsConfig{
			Match:   model.DefaultMatchLabel,
			NoMatch: model.DefaultNoMatchLabel,
		},
	}
}

// SessionLabels nhãn khởi tạo dạng model
func (c *AppConfig) SessionLabels() model.LabelConfig {
	return model.LabelConfig{
		Match:   c.Labels.Match,
		NoMatch: c.Labels.NoMatch,
	}.WithDefaults()
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir thư mục chứa tệp thực thi
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath config.toml nằm cùng thư mục với tệp thực thi
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// không lấy được thư mục tệp thực thi thì dùng thư mục hiện tại
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigFrom nạp cấu hình từ đường dẫn chỉ định
// Tệp không tồn tại thì dùng cấu hình mặc định
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv biến môi trường ghi đè tệp cấu hình
func applyEnv(config *AppConfig) {
	if v := os.Getenv("KIEMSO_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
}

// SaveConfig ghi cấu hình ra tệp
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// ResolveDataDir đường dẫn tuyệt đối của thư mục dữ liệu
// Đường dẫn tương đối được tính từ thư mục tệp thực thi
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir đảm bảo thư mục dữ liệu tồn tại
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DatabasePath đường dẫn tệp SQLite
func DatabasePath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), "kiemso.db")
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddress      = "0.0.0.0:7777"
	defaultLibvirtURI   = "qemu:///system"
	defaultSyncInterval = 5 * time.Minute
	defaultCallTimeout  = 30 * time.Second
	defaultLogLevel     = "info"
)

// Config 服务配置
// 优先级：环境变量 > YAML 配置文件 > 默认值
type Config struct {
	// Address HTTP 监听地址，环境变量 JFM_ADDRESS
	Address string `yaml:"address"`

	// DataDir 数据目录，保存 sqlite 数据库
	// 环境变量 JFM_DATA_DIR，默认 ~/.local/share/jfm
	DataDir string `yaml:"data_dir"`

	Backend Backend `yaml:"backend"`

	// LibvirtURI 读取 KVM 主机存储池时的默认连接，Pod 注册时可以单独指定
	// 环境变量 LIBVIRT_URI
	LibvirtURI string `yaml:"libvirt_uri"`

	// LogLevel zerolog 日志级别，环境变量 JFM_LOG_LEVEL
	LogLevel string `yaml:"log_level"`
}

// Backend region controller 的 websocket 连接配置
type Backend struct {
	// URL 形如 ws://region:5240/MAAS/ws，为空时不连接后端
	URL string `yaml:"url"`
	// Token 通过 Authorization 头发送
	Token        string        `yaml:"token"`
	SyncInterval time.Duration `yaml:"sync_interval"`
	CallTimeout  time.Duration `yaml:"call_timeout"`
}

// New 加载配置
func New() (*Config, error) {
	cfg := &Config{
		Address: defaultAddress,
		DataDir: getDataDir(),
		Backend: Backend{
			SyncInterval: defaultSyncInterval,
			CallTimeout:  defaultCallTimeout,
		},
		LibvirtURI: defaultLibvirtURI,
		LogLevel:   defaultLogLevel,
	}

	// 1. 配置文件
	path, explicit := configPath(cfg.DataDir)
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// 2. 环境变量覆盖
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatabasePath sqlite 数据库文件路径
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "jfm.db")
}

// Level 解析日志级别，无法识别时返回 info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JFM_ADDRESS"); v != "" {
		c.Address = v
	}
	if v := os.Getenv("JFM_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("JFM_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("JFM_BACKEND_TOKEN"); v != "" {
		c.Backend.Token = v
	}
	if v := os.Getenv("JFM_SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse JFM_SYNC_INTERVAL: %w", err)
		}
		c.Backend.SyncInterval = d
	}
	if v := os.Getenv("JFM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LIBVIRT_URI"); v != "" {
		c.LibvirtURI = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Backend.SyncInterval <= 0 {
		return fmt.Errorf("backend.sync_interval must be positive, got %s", c.Backend.SyncInterval)
	}
	if c.Backend.CallTimeout <= 0 {
		c.Backend.CallTimeout = defaultCallTimeout
	}
	return nil
}

// configPath 返回配置文件路径，以及该路径是否由 JFM_CONFIG 显式指定
func configPath(dataDir string) (string, bool) {
	if path := os.Getenv("JFM_CONFIG"); path != "" {
		return path, true
	}
	if dir := os.Getenv("JFM_DATA_DIR"); dir != "" {
		dataDir = dir
	}
	return filepath.Join(dataDir, "config.yaml"), false
}

// getDataDir 获取默认数据目录
func getDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "jfm")
	}
	return filepath.Join(".", "data")
}

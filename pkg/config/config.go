// Package config 提供点击器配置的加载和保存（JSON / YAML / INI）
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// DefaultBrowsers 支持的浏览器（前台应用名）
var DefaultBrowsers = []string{
	"Google Chrome",
	"Safari",
	"Firefox",
	"Microsoft Edge",
	"Brave Browser",
}

// ClickerConfig 点击器配置，启动时读取一次
type ClickerConfig struct {
	// ImagePath 书签图标模板路径
	ImagePath string `json:"image_path" yaml:"image_path"`
	// Confidence 匹配阈值 (0-1]
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// ClickDelay 两次点击之间的间隔（秒）
	ClickDelay float64 `json:"click_delay" yaml:"click_delay"`
	// ScanDelay 两轮扫描之间的间隔（秒）
	ScanDelay float64 `json:"scan_delay" yaml:"scan_delay"`
	// WatchdogLimit 单次运行最大点击次数
	WatchdogLimit int `json:"watchdog_limit" yaml:"watchdog_limit"`
	// DownscaleFactor 截图与模板的缩放系数，1.0 表示不缩放
	DownscaleFactor float64 `json:"downscale_factor" yaml:"downscale_factor"`
	// UseGrayscale 是否使用灰度匹配
	UseGrayscale bool `json:"use_grayscale" yaml:"use_grayscale"`
	// MultiScale 是否在 0.8/1.0/1.2 三个尺度上匹配
	MultiScale bool `json:"multi_scale" yaml:"multi_scale"`
	// BlacklistDuration 黑名单持续轮数
	BlacklistDuration int `json:"blacklist_duration" yaml:"blacklist_duration"`
	// ToolbarHeight 只扫描窗口顶部的高度（像素），0 表示整个窗口
	ToolbarHeight int `json:"toolbar_height" yaml:"toolbar_height"`
	// GroupThreshold 合并相邻匹配的距离阈值（像素）
	GroupThreshold int `json:"group_threshold" yaml:"group_threshold"`
	// ToggleHotkey 暂停/继续快捷键
	ToggleHotkey string `json:"toggle_hotkey" yaml:"toggle_hotkey"`
	// ExitHotkey 退出快捷键
	ExitHotkey string `json:"exit_hotkey" yaml:"exit_hotkey"`
	// Browsers 支持的浏览器
	Browsers []string `json:"browsers" yaml:"browsers"`
	// RegionRetry 浏览器检测重试间隔（秒）
	RegionRetry float64 `json:"region_retry" yaml:"region_retry"`
	// StartPaused 启动后是否处于暂停状态
	StartPaused bool `json:"start_paused" yaml:"start_paused"`
	// LogLevel 日志级别
	LogLevel string `json:"log_level" yaml:"log_level"`
	// LogFile 日志文件，为空则只输出到控制台
	LogFile string `json:"log_file" yaml:"log_file"`
}

// DefaultClickerConfig 默认配置
func DefaultClickerConfig() *ClickerConfig {
	return &ClickerConfig{
		ImagePath:         "images/bookmark.png",
		Confidence:        0.90,
		ClickDelay:        0.5,
		ScanDelay:         1.0,
		WatchdogLimit:     100,
		DownscaleFactor:   0.5,
		UseGrayscale:      true,
		MultiScale:        true,
		BlacklistDuration: 5,
		ToolbarHeight:     80,
		GroupThreshold:    10,
		ToggleHotkey:      "<cmd>+<shift>+s",
		ExitHotkey:        "<cmd>+<shift>+q",
		Browsers:          append([]string(nil), DefaultBrowsers...),
		RegionRetry:       2.0,
		StartPaused:       true,
		LogLevel:          "INFO",
		LogFile:           "bookmark_clicker.log",
	}
}

// ValidationError 配置校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置项 %s 无效: %s", e.Field, e.Reason)
}

// Validate 校验配置取值范围
func (c *ClickerConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.ImagePath) == "":
		return &ValidationError{Field: "image_path", Reason: "不能为空"}
	case c.Confidence < 0 || c.Confidence > 1:
		return &ValidationError{Field: "confidence", Reason: "必须在 [0, 1] 范围内"}
	case c.ClickDelay < 0:
		return &ValidationError{Field: "click_delay", Reason: "不能为负数"}
	case c.ScanDelay < 0:
		return &ValidationError{Field: "scan_delay", Reason: "不能为负数"}
	case c.WatchdogLimit <= 0:
		return &ValidationError{Field: "watchdog_limit", Reason: "必须为正整数"}
	case c.DownscaleFactor <= 0 || c.DownscaleFactor > 1:
		return &ValidationError{Field: "downscale_factor", Reason: "必须在 (0, 1] 范围内"}
	case c.BlacklistDuration < 0:
		return &ValidationError{Field: "blacklist_duration", Reason: "不能为负数"}
	case c.ToolbarHeight < 0:
		return &ValidationError{Field: "toolbar_height", Reason: "不能为负数"}
	case c.GroupThreshold < 0:
		return &ValidationError{Field: "group_threshold", Reason: "不能为负数"}
	case strings.TrimSpace(c.ToggleHotkey) == "":
		return &ValidationError{Field: "toggle_hotkey", Reason: "不能为空"}
	case strings.TrimSpace(c.ExitHotkey) == "":
		return &ValidationError{Field: "exit_hotkey", Reason: "不能为空"}
	case c.ToggleHotkey == c.ExitHotkey:
		return &ValidationError{Field: "exit_hotkey", Reason: "不能与 toggle_hotkey 相同"}
	case len(c.Browsers) == 0:
		return &ValidationError{Field: "browsers", Reason: "至少需要一个浏览器"}
	case c.RegionRetry <= 0:
		return &ValidationError{Field: "region_retry", Reason: "必须大于 0"}
	}
	return nil
}

// Scales 匹配尺度列表
func (c *ClickerConfig) Scales() []float64 {
	if c.MultiScale {
		return []float64{0.8, 1.0, 1.2}
	}
	return []float64{1.0}
}

// ClickInterval 点击间隔
func (c *ClickerConfig) ClickInterval() time.Duration { return seconds(c.ClickDelay) }

// ScanInterval 扫描间隔
func (c *ClickerConfig) ScanInterval() time.Duration { return seconds(c.ScanDelay) }

// RegionRetryInterval 浏览器检测重试间隔
func (c *ClickerConfig) RegionRetryInterval() time.Duration { return seconds(c.RegionRetry) }

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Manager 配置管理器
// 文件格式按扩展名决定: .json / .yaml / .yml / .ini
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建默认配置管理器 (~/.bookmark-clicker/config.json)
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".bookmark-clicker"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// NewManagerWithFile 使用指定配置文件创建配置管理器
func NewManagerWithFile(path string) *Manager {
	return &Manager{
		configDir:  filepath.Dir(path),
		configFile: path,
	}
}

// Load 加载配置，文件不存在时返回默认配置
// 文件中未出现的字段保留默认值
func (m *Manager) Load() (*ClickerConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultClickerConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultClickerConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := DefaultClickerConfig()
	switch m.format() {
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	case "ini":
		err = decodeINI(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultClickerConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	return cfg, nil
}

// Save 保存配置
func (m *Manager) Save(cfg *ClickerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch m.format() {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "ini":
		data, err = encodeINI(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

func (m *Manager) format() string {
	switch strings.ToLower(filepath.Ext(m.configFile)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".ini":
		return "ini"
	default:
		return "json"
	}
}

const iniSection = "clicker"

func decodeINI(data []byte, cfg *ClickerConfig) error {
	file, err := ini.Load(data)
	if err != nil {
		return err
	}
	s := file.Section(iniSection)

	cfg.ImagePath = s.Key("image_path").MustString(cfg.ImagePath)
	cfg.Confidence = s.Key("confidence").MustFloat64(cfg.Confidence)
	cfg.ClickDelay = s.Key("click_delay").MustFloat64(cfg.ClickDelay)
	cfg.ScanDelay = s.Key("scan_delay").MustFloat64(cfg.ScanDelay)
	cfg.WatchdogLimit = s.Key("watchdog_limit").MustInt(cfg.WatchdogLimit)
	cfg.DownscaleFactor = s.Key("downscale_factor").MustFloat64(cfg.DownscaleFactor)
	cfg.UseGrayscale = s.Key("use_grayscale").MustBool(cfg.UseGrayscale)
	cfg.MultiScale = s.Key("multi_scale").MustBool(cfg.MultiScale)
	cfg.BlacklistDuration = s.Key("blacklist_duration").MustInt(cfg.BlacklistDuration)
	cfg.ToolbarHeight = s.Key("toolbar_height").MustInt(cfg.ToolbarHeight)
	cfg.GroupThreshold = s.Key("group_threshold").MustInt(cfg.GroupThreshold)
	cfg.ToggleHotkey = s.Key("toggle_hotkey").MustString(cfg.ToggleHotkey)
	cfg.ExitHotkey = s.Key("exit_hotkey").MustString(cfg.ExitHotkey)
	cfg.RegionRetry = s.Key("region_retry").MustFloat64(cfg.RegionRetry)
	cfg.StartPaused = s.Key("start_paused").MustBool(cfg.StartPaused)
	cfg.LogLevel = s.Key("log_level").MustString(cfg.LogLevel)
	// 空值表示关闭文件日志，MustString 会把空值当作缺省
	if s.HasKey("log_file") {
		cfg.LogFile = s.Key("log_file").String()
	}

	if s.HasKey("browsers") {
		var browsers []string
		for _, b := range s.Key("browsers").Strings(",") {
			if b = strings.TrimSpace(b); b != "" {
				browsers = append(browsers, b)
			}
		}
		cfg.Browsers = browsers
	}
	return nil
}

func encodeINI(cfg *ClickerConfig) ([]byte, error) {
	file := ini.Empty()
	s, err := file.NewSection(iniSection)
	if err != nil {
		return nil, err
	}

	values := []struct {
		key   string
		value string
	}{
		{"image_path", cfg.ImagePath},
		{"confidence", fmt.Sprint(cfg.Confidence)},
		{"click_delay", fmt.Sprint(cfg.ClickDelay)},
		{"scan_delay", fmt.Sprint(cfg.ScanDelay)},
		{"watchdog_limit", fmt.Sprint(cfg.WatchdogLimit)},
		{"downscale_factor", fmt.Sprint(cfg.DownscaleFactor)},
		{"use_grayscale", fmt.Sprint(cfg.UseGrayscale)},
		{"multi_scale", fmt.Sprint(cfg.MultiScale)},
		{"blacklist_duration", fmt.Sprint(cfg.BlacklistDuration)},
		{"toolbar_height", fmt.Sprint(cfg.ToolbarHeight)},
		{"group_threshold", fmt.Sprint(cfg.GroupThreshold)},
		{"toggle_hotkey", cfg.ToggleHotkey},
		{"exit_hotkey", cfg.ExitHotkey},
		{"browsers", strings.Join(cfg.Browsers, ",")},
		{"region_retry", fmt.Sprint(cfg.RegionRetry)},
		{"start_paused", fmt.Sprint(cfg.StartPaused)},
		{"log_level", cfg.LogLevel},
		{"log_file", cfg.LogFile},
	}
	for _, v := range values {
		if _, err := s.NewKey(v.key, v.value); err != nil {
			return nil, err
		}
	}

	var buf strings.Builder
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*ClickerConfig, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(cfg *ClickerConfig) error {
	return defaultManager.Save(cfg)
}

// Package window 提供前台窗口查询和浏览器扫描区域定位
package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
)

var (
	// ErrNoWindow 无法获取前台窗口
	ErrNoWindow = errors.New("未找到前台窗口")
	// ErrNotBrowser 前台应用不在浏览器列表中
	ErrNotBrowser = errors.New("前台应用不是受支持的浏览器")
)

// AppInfo 前台应用
type AppInfo struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

// FrontmostApp 获取当前前台应用，不访问其窗口
func FrontmostApp() (*AppInfo, error) {
	return frontmostAppPlatform()
}

// WindowBounds 获取应用最前面窗口的区域
func WindowBounds(app *AppInfo) (auto.Region, error) {
	if app == nil {
		return auto.Region{}, ErrNoWindow
	}
	return windowBoundsPlatform(app)
}

// BrowserLocator 前台浏览器窗口定位器
// 每次调用都重新查询系统，不缓存结果
type BrowserLocator struct {
	// Browsers 允许的应用名（不区分大小写，完全匹配）
	Browsers []string
	// ToolbarHeight 只保留窗口顶部的像素高度，0 表示整个窗口
	ToolbarHeight int

	frontmost func() (*AppInfo, error)
	bounds    func(app *AppInfo) (auto.Region, error)
}

// NewBrowserLocator 创建定位器
func NewBrowserLocator(browsers []string, toolbarHeight int) *BrowserLocator {
	return &BrowserLocator{
		Browsers:      browsers,
		ToolbarHeight: toolbarHeight,
		frontmost:     FrontmostApp,
		bounds:        WindowBounds,
	}
}

// Locate 返回前台浏览器窗口的扫描区域
// 只有应用名通过允许列表后才查询窗口边界
func (l *BrowserLocator) Locate() (auto.Region, error) {
	app, err := l.frontmost()
	if err != nil {
		return auto.Region{}, err
	}
	if app == nil {
		return auto.Region{}, ErrNoWindow
	}
	if !l.IsBrowser(app.Name) {
		return auto.Region{}, fmt.Errorf("%w: %q", ErrNotBrowser, app.Name)
	}

	bounds, err := l.bounds(app)
	if err != nil {
		return auto.Region{}, fmt.Errorf("获取 %s 窗口区域失败: %w", app.Name, err)
	}
	if bounds.Empty() {
		return auto.Region{}, fmt.Errorf("%w: %s 窗口区域为空 %s", ErrNoWindow, app.Name, bounds)
	}
	return bounds.ClipTop(l.ToolbarHeight), nil
}

// IsBrowser 应用名是否在允许列表中
func (l *BrowserLocator) IsBrowser(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, b := range l.Browsers {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// quoteAppleScript 转义为 AppleScript 字符串字面量
func quoteAppleScript(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// ParseBounds 解析 "x1, y1, x2, y2" 格式的窗口边界
func ParseBounds(s string) (auto.Region, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return auto.Region{}, fmt.Errorf("无法解析窗口边界: %q", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return auto.Region{}, fmt.Errorf("无法解析窗口边界 %q: %w", s, err)
		}
		v[i] = n
	}

	region := auto.RegionFromBounds(v[0], v[1], v[2], v[3])
	if region.Empty() {
		return auto.Region{}, fmt.Errorf("窗口边界无效: %q", s)
	}
	return region, nil
}

//go:build !darwin

package window

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/process"
)

// frontmostAppPlatform 非 macOS 系统以活动窗口标题反查所属进程
func frontmostAppPlatform() (*AppInfo, error) {
	title := robotgo.GetTitle()
	if title == "" {
		return nil, ErrNoWindow
	}

	pids, err := robotgo.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	for _, pid := range pids {
		if robotgo.GetTitle(pid) != title {
			continue
		}
		name, err := process.Name(pid)
		if err != nil {
			continue
		}
		return &AppInfo{PID: pid, Name: name}, nil
	}

	return nil, fmt.Errorf("%w: 标题 %q 无对应进程", ErrNoWindow, title)
}

func windowBoundsPlatform(app *AppInfo) (auto.Region, error) {
	x, y, w, h := robotgo.GetBounds(app.PID)
	return auto.Region{X: x, Y: y, Width: w, Height: h}, nil
}

// Package permissions 检查截屏和模拟输入所需的系统权限
package permissions

import (
	"fmt"
	"strings"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
)

// PermissionStatus 权限状态
type PermissionStatus struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
}

// AllGranted 是否全部授权
func (s *PermissionStatus) AllGranted() bool {
	return s.Accessibility && s.ScreenRecording
}

// Instructions 缺少权限时的说明文本，全部授权时为空
func Instructions(status *PermissionStatus) string {
	if status == nil || status.AllGranted() {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n\n")
	n := 0
	if !status.Accessibility {
		n++
		fmt.Fprintf(&b, "%d. 辅助功能权限 (用于点击和全局快捷键)\n", n)
		b.WriteString("   系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	if !status.ScreenRecording {
		n++
		fmt.Fprintf(&b, "%d. 屏幕录制权限 (用于截屏匹配图标)\n", n)
		b.WriteString("   系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	b.WriteString("授权后需要重启应用才能生效。")
	return b.String()
}

// LogStatus 检查权限并记录日志，返回是否全部授权
func LogStatus() bool {
	status := CheckPermissions()
	logger.Info("权限状态: 辅助功能=%v, 屏幕录制=%v", status.Accessibility, status.ScreenRecording)
	if status.AllGranted() {
		return true
	}
	for _, line := range strings.Split(Instructions(status), "\n") {
		if strings.TrimSpace(line) != "" {
			logger.Warn("%s", line)
		}
	}
	return false
}

// OpenMissingSettings 触发授权弹窗并打开缺少权限对应的设置页面
func OpenMissingSettings(status *PermissionStatus) {
	if status == nil {
		return
	}
	if !status.Accessibility && !RequestAccessibilityPermission() {
		OpenAccessibilitySettings()
	}
	if !status.ScreenRecording {
		OpenScreenRecordingSettings()
	}
}

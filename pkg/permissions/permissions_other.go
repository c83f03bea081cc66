//go:build !darwin

package permissions

// CheckPermissions 非 macOS 系统不需要额外授权
func CheckPermissions() *PermissionStatus {
	return &PermissionStatus{Accessibility: true, ScreenRecording: true}
}

// RequestAccessibilityPermission 请求辅助功能权限
func RequestAccessibilityPermission() bool {
	return true
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {}

// OpenScreenRecordingSettings 打开屏幕录制设置页面
func OpenScreenRecordingSettings() {}

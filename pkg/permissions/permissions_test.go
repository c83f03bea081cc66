package permissions

import (
	"strings"
	"testing"
)

func TestInstructions(t *testing.T) {
	tests := []struct {
		status   *PermissionStatus
		contains []string
		empty    bool
	}{
		{status: nil, empty: true},
		{status: &PermissionStatus{Accessibility: true, ScreenRecording: true}, empty: true},
		{status: &PermissionStatus{ScreenRecording: true}, contains: []string{"1. 辅助功能权限"}},
		{status: &PermissionStatus{Accessibility: true}, contains: []string{"1. 屏幕录制权限"}},
		{status: &PermissionStatus{}, contains: []string{"1. 辅助功能权限", "2. 屏幕录制权限", "重启"}},
	}

	for _, tt := range tests {
		msg := Instructions(tt.status)
		if tt.empty {
			if msg != "" {
				t.Errorf("全部授权时说明应为空: %q", msg)
			}
			continue
		}
		for _, want := range tt.contains {
			if !strings.Contains(msg, want) {
				t.Errorf("说明缺少 %q:\n%s", want, msg)
			}
		}
	}
}

func TestCheckPermissions(t *testing.T) {
	status := CheckPermissions()
	if status == nil {
		t.Fatal("CheckPermissions 返回 nil")
	}
	t.Logf("权限状态: %+v, 全部授权=%v", *status, status.AllGranted())
}

func TestOpenMissingSettingsNoop(t *testing.T) {
	// 全部授权或状态为空时不应打开任何设置页面
	OpenMissingSettings(nil)
	OpenMissingSettings(&PermissionStatus{Accessibility: true, ScreenRecording: true})
}

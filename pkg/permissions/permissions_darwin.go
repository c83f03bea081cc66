//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices -framework CoreGraphics
#include <stdlib.h>
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>
#import <CoreGraphics/CoreGraphics.h>

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

int requestAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

int checkScreenRecordingPermission() {
    if (@available(macOS 10.15, *)) {
        return CGPreflightScreenCaptureAccess() ? 1 : 0;
    }
    return 1;
}

void openPrivacyPane(const char* anchor) {
    NSString *urlString = [NSString stringWithFormat:@"x-apple.systempreferences:com.apple.preference.security?%s", anchor];
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:urlString]];
}
*/
import "C"
import "unsafe"

// CheckPermissions 检查所需权限（不触发弹窗）
func CheckPermissions() *PermissionStatus {
	return &PermissionStatus{
		Accessibility:   C.checkAccessibilityPermission() == 1,
		ScreenRecording: C.checkScreenRecordingPermission() == 1,
	}
}

// RequestAccessibilityPermission 请求辅助功能权限（触发系统弹窗）
func RequestAccessibilityPermission() bool {
	return C.requestAccessibilityPermission() == 1
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {
	openPane("Privacy_Accessibility")
}

// OpenScreenRecordingSettings 打开屏幕录制设置页面
func OpenScreenRecordingSettings() {
	openPane("Privacy_ScreenCapture")
}

func openPane(anchor string) {
	cs := C.CString(anchor)
	defer C.free(unsafe.Pointer(cs))
	C.openPrivacyPane(cs)
}

//go:build darwin

package window

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Cocoa -framework AppKit
#import <CoreGraphics/CoreGraphics.h>
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

// 前台应用信息
typedef struct {
    int pid;
    char name[256];
} FrontAppC;

int getFrontmostApp(FrontAppC* out) {
    NSRunningApplication* app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    if (app == nil) {
        return 0;
    }
    out->pid = [app processIdentifier];
    NSString* name = [app localizedName];
    if (name != nil) {
        strncpy(out->name, [name UTF8String], sizeof(out->name) - 1);
    }
    return 1;
}

// 获取 pid 最前面的普通窗口边界，列表按前后顺序排列
int getFrontWindowBounds(int pid, int* x, int* y, int* w, int* h) {
    CFArrayRef windowList = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
        kCGNullWindowID
    );
    if (windowList == NULL) {
        return 0;
    }

    int found = 0;
    CFIndex count = CFArrayGetCount(windowList);
    for (CFIndex i = 0; i < count; i++) {
        CFDictionaryRef window = (CFDictionaryRef)CFArrayGetValueAtIndex(windowList, i);

        int layer = 0;
        CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(window, kCGWindowLayer);
        if (layerRef) {
            CFNumberGetValue(layerRef, kCFNumberIntType, &layer);
        }
        if (layer != 0) {
            continue;
        }

        int ownerPid = 0;
        CFNumberRef pidRef = (CFNumberRef)CFDictionaryGetValue(window, kCGWindowOwnerPID);
        if (pidRef) {
            CFNumberGetValue(pidRef, kCFNumberIntType, &ownerPid);
        }
        if (ownerPid != pid) {
            continue;
        }

        CFDictionaryRef boundsRef = (CFDictionaryRef)CFDictionaryGetValue(window, kCGWindowBounds);
        CGRect bounds;
        if (boundsRef == NULL || !CGRectMakeWithDictionaryRepresentation(boundsRef, &bounds)) {
            continue;
        }

        *x = (int)bounds.origin.x;
        *y = (int)bounds.origin.y;
        *w = (int)bounds.size.width;
        *h = (int)bounds.size.height;
        found = 1;
        break;
    }

    CFRelease(windowList);
    return found;
}
*/
import "C"
import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/process"
)

// frontmostAppPlatform 应用名来自 NSWorkspace，为空时按 PID 查询进程名
func frontmostAppPlatform() (*AppInfo, error) {
	var app C.FrontAppC
	if C.getFrontmostApp(&app) == 0 {
		return nil, ErrNoWindow
	}

	pid := int(app.pid)
	name := C.GoString(&app.name[0])
	if name == "" {
		if n, err := process.Name(pid); err == nil {
			name = n
		}
	}
	return &AppInfo{PID: pid, Name: name}, nil
}

// windowBoundsPlatform 优先使用 AppleScript，失败时回退到 CGWindowList
func windowBoundsPlatform(app *AppInfo) (auto.Region, error) {
	bounds, err := boundsByScript(app.Name)
	if err == nil {
		return bounds, nil
	}
	logger.Debug("AppleScript 获取窗口边界失败，使用 CGWindowList: %v", err)
	return boundsByWindowList(app.PID)
}

func boundsByScript(appName string) (auto.Region, error) {
	if appName == "" {
		return auto.Region{}, ErrNoWindow
	}
	script := fmt.Sprintf(`tell application %s to get bounds of front window`, quoteAppleScript(appName))
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return auto.Region{}, fmt.Errorf("osascript 执行失败: %w", err)
	}
	return ParseBounds(strings.TrimSpace(string(out)))
}

func boundsByWindowList(pid int) (auto.Region, error) {
	var x, y, w, h C.int
	if C.getFrontWindowBounds(C.int(pid), &x, &y, &w, &h) == 0 {
		return auto.Region{}, fmt.Errorf("%w: PID=%d 无可见窗口", ErrNoWindow, pid)
	}
	return auto.Region{X: int(x), Y: int(y), Width: int(w), Height: int(h)}, nil
}

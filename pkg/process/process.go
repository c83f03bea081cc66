// Package process 提供进程信息查询
package process

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Name 获取进程名
func Name(pid int) (string, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("进程 %d 不存在: %w", pid, err)
	}
	name, err := proc.Name()
	if err != nil {
		return "", fmt.Errorf("获取进程 %d 名称失败: %w", pid, err)
	}
	return NormalizeName(name), nil
}

// NormalizeName 去掉可执行文件扩展名
// Windows 下 gopsutil 返回 "chrome.exe"，与 macOS 应用名保持一致
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		name = name[:len(name)-len(".exe")]
	}
	return name
}

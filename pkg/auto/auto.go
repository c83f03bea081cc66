// Package auto 提供屏幕坐标相关的共享类型和工具函数。
// 具体功能分布在子包中：screen, input, window。
package auto

import (
	"fmt"
	"math"
)

// Point 表示屏幕坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Region 表示屏幕上的矩形区域（扫描区域）
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionFromBounds 由左上、右下角坐标构造区域
func RegionFromBounds(x1, y1, x2, y2 int) Region {
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty 区域是否为空
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains 点是否在区域内（右、下边界不包含）
func (r Region) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// ClipTop 只保留区域顶部 height 像素，height <= 0 时返回原区域
func (r Region) ClipTop(height int) Region {
	if height <= 0 || height >= r.Height {
		return r
	}
	r.Height = height
	return r
}

func (r Region) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// ScaleCoord 按比例还原坐标值 (value / scale，四舍五入)
func ScaleCoord(value float64, scale float64) int {
	if scale <= 0 {
		return int(math.Round(value))
	}
	return int(math.Round(value / scale))
}

// ScaleInt 按比例缩放整数值 (value * factor，向下取整，至少为 1)
func ScaleInt(value int, factor float64) int {
	if factor <= 0 {
		return value
	}
	return max(int(float64(value)*factor), 1)
}

// Package vision 提供图标匹配结果的类型、相邻匹配合并以及屏幕坐标还原
package vision

import (
	"fmt"
	"image"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
)

// MatchRect 匹配矩形，坐标位于（可能已缩放的）截图坐标系
type MatchRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	// Scale 找到该匹配时使用的模板尺度
	Scale float64 `json:"scale,omitempty"`
	// Confidence 匹配置信度 (0-1)
	Confidence float64 `json:"confidence,omitempty"`
}

// NewMatchRect 从左上角坐标和宽高创建矩形
func NewMatchRect(x, y, w, h int) MatchRect {
	return MatchRect{X: x, Y: y, Width: w, Height: h, Scale: 1.0}
}

// Right 右边界 x 坐标
func (r MatchRect) Right() int {
	return r.X + r.Width
}

// Bottom 下边界 y 坐标
func (r MatchRect) Bottom() int {
	return r.Y + r.Height
}

// CenterF 中心点（浮点，避免在还原前丢失精度）
func (r MatchRect) CenterF() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// ToImageRect 转换为 image.Rectangle
func (r MatchRect) ToImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r MatchRect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// Detection 一轮扫描的检测结果
// Downscale 与截图时使用的缩放系数一致，坐标还原只使用这里的值
type Detection struct {
	Rects     []MatchRect
	Downscale float64
	Region    auto.Region
}

// ScreenPoint 将截图坐标系中的矩形中心还原到屏幕坐标
//
//	x = region.X + round((rect.X + rect.W/2) / downscale)
func (d *Detection) ScreenPoint(r MatchRect) auto.Point {
	cx, cy := r.CenterF()
	return auto.Point{
		X: d.Region.X + auto.ScaleCoord(cx, d.Downscale),
		Y: d.Region.Y + auto.ScaleCoord(cy, d.Downscale),
	}
}

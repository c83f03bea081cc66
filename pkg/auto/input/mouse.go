// Package input 提供鼠标操作
package input

import (
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
)

// settleDelay 移动后等待鼠标到位
const settleDelay = 50 * time.Millisecond

// Mouse 基于 robotgo 的鼠标
type Mouse struct {
	Button string
}

// NewMouse 创建左键鼠标
func NewMouse() *Mouse {
	return &Mouse{Button: "left"}
}

// MoveTo 移动鼠标到指定位置
func MoveTo(x, y int) {
	robotgo.Move(x, y)
}

// MoveSmooth 平滑移动鼠标
func MoveSmooth(x, y int) {
	robotgo.MoveSmooth(x, y)
}

// GetMousePosition 获取鼠标位置
func GetMousePosition() (x, y int) {
	return robotgo.Location()
}

// Click 移动到 p 后单击
func (m *Mouse) Click(p auto.Point) error {
	MoveTo(p.X, p.Y)
	time.Sleep(settleDelay)

	btn := m.Button
	if btn == "" {
		btn = "left"
	}
	robotgo.Click(btn, false)
	return nil
}

// Location 当前鼠标位置
func (m *Mouse) Location() auto.Point {
	x, y := GetMousePosition()
	return auto.Point{X: x, Y: y}
}

// MoveSmooth 平滑移动到 p
func (m *Mouse) MoveSmooth(p auto.Point) {
	MoveSmooth(p.X, p.Y)
}

package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
)

// ErrOutOfBounds 目标坐标超出屏幕
var ErrOutOfBounds = errors.New("坐标超出屏幕范围")

// ValidateTarget 检查 (x, y) 是否在 width x height 的屏幕内
func ValidateTarget(x, y, width, height int) error {
	if x < 0 || y < 0 || x >= width || y >= height {
		return fmt.Errorf("%w: (%d, %d) 不在 %dx%d 内", ErrOutOfBounds, x, y, width, height)
	}
	return nil
}

// ParseTarget 解析输入框中的坐标并检查范围
func ParseTarget(xs, ys string, width, height int) (auto.Point, error) {
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return auto.Point{}, fmt.Errorf("X 坐标无效: %q", xs)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return auto.Point{}, fmt.Errorf("Y 坐标无效: %q", ys)
	}
	if err := ValidateTarget(x, y, width, height); err != nil {
		return auto.Point{}, err
	}
	return auto.Point{X: x, Y: y}, nil
}

// Package screen 提供屏幕截图和截图内图标检测
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"gocv.io/x/gocv"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/vision/cv"
)

// CaptureRegion 截取屏幕区域
func CaptureRegion(region auto.Region) (image.Image, error) {
	if region.Empty() {
		return nil, fmt.Errorf("截图区域为空: %s", region)
	}
	img, err := robotgo.CaptureImg(region.X, region.Y, region.Width, region.Height)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}

// CaptureMat 截取屏幕区域并转换为 BGR gocv.Mat
func CaptureMat(region auto.Region) (gocv.Mat, error) {
	img, err := CaptureRegion(region)
	if err != nil {
		return gocv.Mat{}, err
	}

	mat, err := cv.ImageToMat(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("转换截图失败: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("截图为空: %s", region)
	}
	return mat, nil
}

// GetScreenSize 获取主屏幕尺寸
func GetScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

// ScreenBounds 主屏幕区域
func ScreenBounds() auto.Region {
	w, h := GetScreenSize()
	return auto.Region{Width: w, Height: h}
}

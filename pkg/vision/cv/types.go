// Package cv 提供基于 OpenCV 的图标模板匹配
package cv

import "fmt"

// DefaultScales 多尺度匹配时尝试的模板尺度
var DefaultScales = []float64{0.8, 1.0, 1.2}

// DefaultThreshold 默认匹配阈值
const DefaultThreshold = 0.90

// ImageSizeError 模板尺寸大于截图
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}

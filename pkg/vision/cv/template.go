package cv

import (
	"fmt"

	"gocv.io/x/gocv"
)

// IconTemplate 预处理后的参考图标
// 加载时按匹配模式转换通道并按 Downscale 缩小，整个运行期间只加载一次
type IconTemplate struct {
	// Path 模板文件路径
	Path string
	// Grayscale 是否为灰度模板
	Grayscale bool
	// Downscale 模板与截图共用的缩放系数
	Downscale float64

	mat gocv.Mat
}

// LoadIconTemplate 从文件加载模板，失败时返回错误（对本次运行是致命错误）
func LoadIconTemplate(path string, grayscale bool, downscale float64) (*IconTemplate, error) {
	var (
		src gocv.Mat
		err error
	)
	if grayscale {
		src, err = ReadImageGray(path)
	} else {
		src, err = ReadImage(path)
	}
	if err != nil {
		return nil, fmt.Errorf("加载模板失败: %w", err)
	}
	defer src.Close()

	t, err := NewIconTemplate(src, grayscale, downscale)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// NewIconTemplate 使用内存中的图像创建模板，src 不会被修改
func NewIconTemplate(src gocv.Mat, grayscale bool, downscale float64) (*IconTemplate, error) {
	if src.Empty() {
		return nil, fmt.Errorf("模板图像为空")
	}
	if downscale <= 0 || downscale > 1 {
		return nil, fmt.Errorf("缩放系数必须在 (0, 1] 范围内: %v", downscale)
	}

	var converted gocv.Mat
	if grayscale {
		converted = ToGray(src)
	} else {
		converted = ToBGR(src)
	}
	defer converted.Close()

	mat := ScaleImage(converted, downscale)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("模板缩放失败")
	}

	return &IconTemplate{
		Grayscale: grayscale,
		Downscale: downscale,
		mat:       mat,
	}, nil
}

// Size 预处理后的模板尺寸 (width, height)
func (t *IconTemplate) Size() (int, int) {
	return t.mat.Cols(), t.mat.Rows()
}

// Close 释放资源
func (t *IconTemplate) Close() {
	t.mat.Close()
}

func (t *IconTemplate) String() string {
	w, h := t.Size()
	return fmt.Sprintf("IconTemplate(%s, %dx%d, gray=%v, downscale=%.2f)", t.Path, w, h, t.Grayscale, t.Downscale)
}

package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ReadImage 读取彩色图像文件 (BGR)
func ReadImage(filename string) (gocv.Mat, error) {
	mat := gocv.IMRead(filename, gocv.IMReadColor)
	if mat.Empty() {
		return mat, fmt.Errorf("无法读取图像: %s", filename)
	}
	return mat, nil
}

// ReadImageGray 读取灰度图像
func ReadImageGray(filename string) (gocv.Mat, error) {
	mat := gocv.IMRead(filename, gocv.IMReadGrayScale)
	if mat.Empty() {
		return mat, fmt.Errorf("无法读取图像: %s", filename)
	}
	return mat, nil
}

// ToGray 转换为单通道灰度图，输入已是单通道时返回副本
func ToGray(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.CopyTo(&dst)
	case 4:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	}
	return dst
}

// ToBGR 转换为三通道 BGR 图，输入已是三通道时返回副本
func ToBGR(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	switch src.Channels() {
	case 1:
		gocv.CvtColor(src, &dst, gocv.ColorGrayToBGR)
	case 4:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToBGR)
	default:
		src.CopyTo(&dst)
	}
	return dst
}

// ScaleImage 按比例缩放图像，缩小时使用 INTER_AREA
// scale == 1 时返回副本
func ScaleImage(img gocv.Mat, scale float64) gocv.Mat {
	dst := gocv.NewMat()
	if scale == 1.0 {
		img.CopyTo(&dst)
		return dst
	}

	interp := gocv.InterpolationArea
	if scale > 1.0 {
		interp = gocv.InterpolationLinear
	}
	newW := max(1, int(float64(img.Cols())*scale))
	newH := max(1, int(float64(img.Rows())*scale))
	gocv.Resize(img, &dst, image.Point{X: newW, Y: newH}, 0, 0, interp)
	return dst
}

// ImageToMat 将 image.Image 转换为 gocv.Mat
// gocv.ImageToMatRGB 的结果已是 BGR 顺序，与 IMRead 读取的模板一致
func ImageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	return mat, nil
}

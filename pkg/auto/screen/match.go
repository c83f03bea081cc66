package screen

import (
	"gocv.io/x/gocv"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/vision"
	"github.com/zoeyai/bookmarkclicker/pkg/vision/cv"
)

// CaptureFunc 截图函数，便于替换
type CaptureFunc func(region auto.Region) (gocv.Mat, error)

// Detector 截图 + 图标匹配
// 检测结果携带匹配时实际使用的缩放系数，点击坐标只依据该值还原
type Detector struct {
	matcher *cv.IconMatcher
	capture CaptureFunc
}

// NewDetector 创建使用 robotgo 截图的检测器
func NewDetector(matcher *cv.IconMatcher) *Detector {
	return &Detector{matcher: matcher, capture: CaptureMat}
}

// NewDetectorWithCapture 使用自定义截图函数创建检测器
func NewDetectorWithCapture(matcher *cv.IconMatcher, capture CaptureFunc) *Detector {
	return &Detector{matcher: matcher, capture: capture}
}

// Detect 截取区域并返回原始匹配矩形（未合并）
func (d *Detector) Detect(region auto.Region) (*vision.Detection, error) {
	mat, err := d.capture(region)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return &vision.Detection{
		Rects:     d.matcher.FindAll(mat),
		Downscale: d.matcher.Downscale(),
		Region:    region,
	}, nil
}

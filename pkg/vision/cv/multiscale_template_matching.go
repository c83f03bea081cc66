package cv

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
	"github.com/zoeyai/bookmarkclicker/pkg/vision"
)

// IconMatcher 在截图中查找图标的所有出现位置
//
// 截图先转换为模板的通道模式，再按模板的 Downscale 缩小；
// 然后对 Scales 中的每个尺度缩放模板并匹配。
// 返回的矩形位于缩小后的截图坐标系，可能在尺度或位置之间重复，去重由 vision.GroupRects 完成。
type IconMatcher struct {
	template  *IconTemplate
	threshold float64
	scales    []float64
}

// NewIconMatcher 创建匹配器，scales 为空时只使用 1.0
func NewIconMatcher(template *IconTemplate, threshold float64, scales []float64) *IconMatcher {
	if len(scales) == 0 {
		scales = []float64{1.0}
	}
	return &IconMatcher{
		template:  template,
		threshold: threshold,
		scales:    append([]float64(nil), scales...),
	}
}

// Downscale 截图需要使用的缩放系数
func (m *IconMatcher) Downscale() float64 {
	return m.template.Downscale
}

// FindAll 查找所有得分不低于阈值的位置
// 截图为空或某个尺度匹配失败时记录日志并跳过，不返回错误
func (m *IconMatcher) FindAll(capture gocv.Mat) []vision.MatchRect {
	if capture.Empty() {
		logger.Warn("截图为空，跳过匹配")
		return nil
	}

	source := m.prepareSource(capture)
	defer source.Close()

	var rects []vision.MatchRect
	for _, scale := range m.scales {
		found, err := m.findAtScale(source, scale)
		if err != nil {
			var sizeErr *ImageSizeError
			if errors.As(err, &sizeErr) {
				logger.Debug("尺度 %.2f 跳过: %v", scale, err)
			} else {
				logger.Error("尺度 %.2f 匹配失败: %v", scale, err)
			}
			continue
		}
		rects = append(rects, found...)
	}
	return rects
}

func (m *IconMatcher) findAtScale(source gocv.Mat, scale float64) ([]vision.MatchRect, error) {
	if scale == 1.0 {
		return matchAtScale(source, m.template.mat, m.threshold, scale)
	}

	search := ScaleImage(m.template.mat, scale)
	defer search.Close()
	return matchAtScale(source, search, m.threshold, scale)
}

// prepareSource 转换通道并缩小截图
func (m *IconMatcher) prepareSource(capture gocv.Mat) gocv.Mat {
	var converted gocv.Mat
	if m.template.Grayscale {
		converted = ToGray(capture)
	} else {
		converted = ToBGR(capture)
	}
	if m.template.Downscale == 1.0 {
		return converted
	}
	defer converted.Close()
	return ScaleImage(converted, m.template.Downscale)
}

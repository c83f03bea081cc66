package cv

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/zoeyai/bookmarkclicker/pkg/vision"
)

// matchAtScale 在单一模板尺度下执行 TM_CCOEFF_NORMED 匹配
// 返回所有得分不低于 threshold 的位置，坐标和尺寸已除以 scale 还原
func matchAtScale(source, search gocv.Mat, threshold, scale float64) ([]vision.MatchRect, error) {
	if err := checkSourceLargerThanSearch(source, search); err != nil {
		return nil, err
	}

	result := gocv.NewMat()
	defer result.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(source, search, &result, gocv.TmCcoeffNormed, mask)
	if result.Empty() {
		return nil, fmt.Errorf("模板匹配失败: 结果矩阵为空")
	}

	scores, err := result.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("读取匹配结果失败: %w", err)
	}

	w, h := search.Cols(), search.Rows()
	cols := result.Cols()
	origW := int(float64(w) / scale)
	origH := int(float64(h) / scale)

	var rects []vision.MatchRect
	for i, s := range scores {
		score := float64(s)
		if score < threshold {
			continue
		}
		x, y := i%cols, i/cols
		rects = append(rects, vision.MatchRect{
			X:          int(float64(x) / scale),
			Y:          int(float64(y) / scale),
			Width:      origW,
			Height:     origH,
			Scale:      scale,
			Confidence: score,
		})
	}
	return rects, nil
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}

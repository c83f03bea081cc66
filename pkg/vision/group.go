package vision

import "sort"

// DefaultGroupThreshold 默认合并距离（像素）
const DefaultGroupThreshold = 10

// GroupRects 合并重叠或相邻的匹配矩形，避免同一个图标被点击多次
//
// 按 x 升序排序后单次扫描：矩形左边界小于当前分组右边界 + threshold 时并入该分组，
// 分组扩展为两者的外接矩形；否则输出当前分组并开始新分组。
// 只比较 x 轴，纵向相距很远但横向接近的矩形也会被合并。
func GroupRects(rects []MatchRect, threshold int) []MatchRect {
	if len(rects) == 0 {
		return nil
	}

	sorted := make([]MatchRect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var grouped []MatchRect
	current := sorted[0]

	for _, r := range sorted[1:] {
		if r.X < current.Right()+threshold {
			current = union(current, r)
			continue
		}
		grouped = append(grouped, current)
		current = r
	}

	return append(grouped, current)
}

// union 外接矩形，保留较高的置信度
func union(a, b MatchRect) MatchRect {
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.Right(), b.Right())
	y2 := max(a.Bottom(), b.Bottom())

	merged := MatchRect{
		X:          x1,
		Y:          y1,
		Width:      x2 - x1,
		Height:     y2 - y1,
		Scale:      a.Scale,
		Confidence: a.Confidence,
	}
	if b.Confidence > a.Confidence {
		merged.Scale = b.Scale
		merged.Confidence = b.Confidence
	}
	return merged
}

package auto

import "testing"

func TestRegionFromBounds(t *testing.T) {
	r := RegionFromBounds(10, 20, 810, 620)
	if r != (Region{X: 10, Y: 20, Width: 800, Height: 600}) {
		t.Errorf("RegionFromBounds() = %+v", r)
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{X: 0, Y: 0, Width: 800, Height: 600}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{400, 300}, true},
		{Point{799, 599}, true},
		{Point{800, 300}, false},
		{Point{400, 600}, false},
		{Point{-1, 10}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRegionClipTop(t *testing.T) {
	r := Region{X: 5, Y: 25, Width: 1200, Height: 800}

	if got := r.ClipTop(80); got != (Region{X: 5, Y: 25, Width: 1200, Height: 80}) {
		t.Errorf("ClipTop(80) = %+v", got)
	}
	if got := r.ClipTop(0); got != r {
		t.Errorf("ClipTop(0) 应返回原区域, 实际 %+v", got)
	}
	if got := r.ClipTop(2000); got != r {
		t.Errorf("ClipTop 超过高度应返回原区域, 实际 %+v", got)
	}
}

func TestRegionEmpty(t *testing.T) {
	if !(Region{Width: 0, Height: 10}).Empty() {
		t.Error("宽度为 0 的区域应为空")
	}
	if (Region{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 区域不应为空")
	}
}

func TestScaleCoord(t *testing.T) {
	tests := []struct {
		value, scale float64
		want         int
	}{
		{20, 0.5, 40},
		{20, 1.0, 20},
		{10.5, 1.0, 11},
		{7, 0.3, 23},
		{15, 0, 15},
	}
	for _, tt := range tests {
		if got := ScaleCoord(tt.value, tt.scale); got != tt.want {
			t.Errorf("ScaleCoord(%v, %v) = %d, want %d", tt.value, tt.scale, got, tt.want)
		}
	}
}

func TestScaleInt(t *testing.T) {
	if got := ScaleInt(100, 0.5); got != 50 {
		t.Errorf("ScaleInt(100, 0.5) = %d", got)
	}
	if got := ScaleInt(1, 0.3); got != 1 {
		t.Errorf("ScaleInt 结果至少为 1, 实际 %d", got)
	}
	if got := ScaleInt(30, 0); got != 30 {
		t.Errorf("factor<=0 应返回原值, 实际 %d", got)
	}
}

func TestPointString(t *testing.T) {
	if s := (Point{X: 140, Y: 240}).String(); s != "(140, 240)" {
		t.Errorf("String() = %q", s)
	}
}

package cv

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/vision"
)

// newIconMat 生成 20x20 的彩色测试图标，色块按 4 像素对齐
func newIconMat() gocv.Mat {
	icon := gocv.NewMatWithSize(20, 20, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&icon, image.Rect(0, 0, 20, 20), color.RGBA{255, 255, 255, 0}, -1)
	gocv.Rectangle(&icon, image.Rect(0, 0, 8, 8), color.RGBA{0, 0, 200, 0}, -1)
	gocv.Rectangle(&icon, image.Rect(8, 4, 16, 12), color.RGBA{0, 180, 0, 0}, -1)
	gocv.Rectangle(&icon, image.Rect(4, 12, 12, 20), color.RGBA{160, 40, 0, 0}, -1)
	gocv.Rectangle(&icon, image.Rect(16, 16, 20, 20), color.RGBA{20, 20, 20, 0}, -1)
	return icon
}

// newCaptureMat 生成纯灰色截图，并在给定位置放置图标
func newCaptureMat(width, height int, positions ...image.Point) gocv.Mat {
	capture := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&capture, image.Rect(0, 0, width, height), color.RGBA{128, 128, 128, 0}, -1)

	icon := newIconMat()
	defer icon.Close()
	for _, p := range positions {
		roi := capture.Region(image.Rect(p.X, p.Y, p.X+icon.Cols(), p.Y+icon.Rows()))
		icon.CopyTo(&roi)
		roi.Close()
	}
	return capture
}

func newTemplate(t *testing.T, grayscale bool, downscale float64) *IconTemplate {
	t.Helper()
	icon := newIconMat()
	defer icon.Close()

	tpl, err := NewIconTemplate(icon, grayscale, downscale)
	if err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}
	return tpl
}

func TestNewIconTemplate(t *testing.T) {
	tpl := newTemplate(t, true, 0.5)
	defer tpl.Close()

	w, h := tpl.Size()
	if w != 10 || h != 10 {
		t.Errorf("缩放后的模板尺寸应为 10x10, 实际 %dx%d", w, h)
	}
	if !tpl.Grayscale || tpl.Downscale != 0.5 {
		t.Errorf("模板属性不符: %s", tpl)
	}
}

func TestNewIconTemplateInvalid(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := NewIconTemplate(empty, true, 1.0); err == nil {
		t.Error("空模板应返回错误")
	}

	icon := newIconMat()
	defer icon.Close()
	if _, err := NewIconTemplate(icon, true, 0); err == nil {
		t.Error("缩放系数为 0 应返回错误")
	}
	if _, err := NewIconTemplate(icon, true, 1.5); err == nil {
		t.Error("缩放系数大于 1 应返回错误")
	}
}

func TestLoadIconTemplateMissingFile(t *testing.T) {
	_, err := LoadIconTemplate(filepath.Join(t.TempDir(), "missing.png"), true, 1.0)
	if err == nil {
		t.Fatal("模板文件不存在时应返回错误")
	}
	t.Logf("错误信息: %v", err)
}

func TestLoadIconTemplateFromFile(t *testing.T) {
	icon := newIconMat()
	defer icon.Close()

	path := filepath.Join(t.TempDir(), "bookmark.png")
	if ok := gocv.IMWrite(path, icon); !ok {
		t.Fatalf("写入测试图标失败: %s", path)
	}

	tpl, err := LoadIconTemplate(path, false, 1.0)
	if err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	defer tpl.Close()

	if tpl.Path != path {
		t.Errorf("模板路径不符: %s", tpl.Path)
	}
	if w, h := tpl.Size(); w != 20 || h != 20 {
		t.Errorf("模板尺寸应为 20x20, 实际 %dx%d", w, h)
	}
}

func TestIconMatcherFindsIcon(t *testing.T) {
	for _, grayscale := range []bool{true, false} {
		tpl := newTemplate(t, grayscale, 1.0)
		capture := newCaptureMat(300, 200, image.Pt(100, 60))

		matcher := NewIconMatcher(tpl, DefaultThreshold, []float64{1.0})
		rects := matcher.FindAll(capture)
		groups := vision.GroupRects(rects, vision.DefaultGroupThreshold)

		if len(groups) != 1 {
			t.Fatalf("gray=%v: 期望 1 个分组, 实际 %d (%v)", grayscale, len(groups), groups)
		}
		if !groups[0].ToImageRect().Overlaps(image.Rect(100, 60, 120, 80)) {
			t.Errorf("gray=%v: 分组 %v 未覆盖图标位置", grayscale, groups[0])
		}

		hasExact := false
		for _, r := range rects {
			if r.X == 100 && r.Y == 60 && r.Width == 20 && r.Height == 20 {
				hasExact = true
				if r.Confidence < 0.99 {
					t.Errorf("gray=%v: 精确位置置信度过低: %.4f", grayscale, r.Confidence)
				}
			}
		}
		if !hasExact {
			t.Errorf("gray=%v: 未找到精确位置 (100, 60): %v", grayscale, rects)
		}

		capture.Close()
		tpl.Close()
	}
}

func TestIconMatcherDownscaledMapsBackToScreen(t *testing.T) {
	tpl := newTemplate(t, true, 0.5)
	defer tpl.Close()

	capture := newCaptureMat(400, 240, image.Pt(200, 100))
	defer capture.Close()

	matcher := NewIconMatcher(tpl, DefaultThreshold, []float64{1.0})
	if matcher.Downscale() != 0.5 {
		t.Fatalf("Downscale() = %v", matcher.Downscale())
	}

	rects := matcher.FindAll(capture)
	var exact *vision.MatchRect
	for i := range rects {
		if rects[i].X == 100 && rects[i].Y == 50 {
			exact = &rects[i]
		}
	}
	if exact == nil {
		t.Fatalf("缩小后应在 (100, 50) 找到图标: %v", rects)
	}

	d := &vision.Detection{
		Rects:     []vision.MatchRect{*exact},
		Downscale: matcher.Downscale(),
		Region:    auto.Region{X: 30, Y: 40, Width: 400, Height: 240},
	}
	got := d.ScreenPoint(*exact)
	want := auto.Point{X: 30 + 210, Y: 40 + 110}
	if got != want {
		t.Errorf("屏幕坐标 = %v, 期望图标中心 %v", got, want)
	}
}

func TestIconMatcherMultipleIcons(t *testing.T) {
	tpl := newTemplate(t, true, 1.0)
	defer tpl.Close()

	capture := newCaptureMat(400, 100, image.Pt(40, 20), image.Pt(200, 40), image.Pt(340, 10))
	defer capture.Close()

	rects := NewIconMatcher(tpl, DefaultThreshold, []float64{1.0}).FindAll(capture)
	groups := vision.GroupRects(rects, vision.DefaultGroupThreshold)

	if len(groups) != 3 {
		t.Fatalf("期望 3 个分组, 实际 %d: %v", len(groups), groups)
	}
	wantX := []int{40, 200, 340}
	for i, g := range groups {
		if !g.ToImageRect().Overlaps(image.Rect(wantX[i], 0, wantX[i]+20, 100)) {
			t.Errorf("分组 %d = %v 未覆盖 x=%d", i, g, wantX[i])
		}
	}
}

func TestIconMatcherEnlargedIcon(t *testing.T) {
	tpl := newTemplate(t, true, 1.0)
	defer tpl.Close()

	icon := newIconMat()
	defer icon.Close()
	enlarged := ScaleImage(icon, 1.2)
	defer enlarged.Close()

	capture := newCaptureMat(100, 60)
	defer capture.Close()
	roi := capture.Region(image.Rect(0, 0, enlarged.Cols(), enlarged.Rows()))
	enlarged.CopyTo(&roi)
	roi.Close()

	rects := NewIconMatcher(tpl, DefaultThreshold, DefaultScales).FindAll(capture)

	found := false
	for _, r := range rects {
		if r.Scale == 1.2 && r.X == 0 && r.Y == 0 {
			found = true
			if r.Width != 20 || r.Height != 20 {
				t.Errorf("尺寸应还原为 20x20, 实际 %dx%d", r.Width, r.Height)
			}
		}
	}
	if !found {
		t.Errorf("应在尺度 1.2 下找到放大的图标: %v", rects)
	}
}

func TestIconMatcherNoMatch(t *testing.T) {
	tpl := newTemplate(t, true, 1.0)
	defer tpl.Close()

	capture := newCaptureMat(200, 100)
	defer capture.Close()

	if rects := NewIconMatcher(tpl, DefaultThreshold, DefaultScales).FindAll(capture); len(rects) != 0 {
		t.Errorf("纯色截图不应有匹配: %v", rects)
	}
}

func TestIconMatcherEmptyCapture(t *testing.T) {
	tpl := newTemplate(t, true, 1.0)
	defer tpl.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	if rects := NewIconMatcher(tpl, DefaultThreshold, nil).FindAll(empty); rects != nil {
		t.Errorf("空截图应返回空列表: %v", rects)
	}
}

func TestIconMatcherTemplateLargerThanCapture(t *testing.T) {
	tpl := newTemplate(t, true, 1.0)
	defer tpl.Close()

	capture := newCaptureMat(15, 15)
	defer capture.Close()

	if rects := NewIconMatcher(tpl, DefaultThreshold, DefaultScales).FindAll(capture); len(rects) != 0 {
		t.Errorf("模板大于截图时应返回空列表: %v", rects)
	}
}

func TestMatchAtScaleSizeError(t *testing.T) {
	small := gocv.NewMatWithSize(5, 5, gocv.MatTypeCV8UC1)
	defer small.Close()
	big := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
	defer big.Close()

	_, err := matchAtScale(small, big, 0.9, 1.0)
	if _, ok := err.(*ImageSizeError); !ok {
		t.Errorf("期望 ImageSizeError, 实际 %v", err)
	}
}

func TestScaleImage(t *testing.T) {
	icon := newIconMat()
	defer icon.Close()

	tests := []struct {
		scale      float64
		wantW, wantH int
	}{
		{1.0, 20, 20},
		{0.5, 10, 10},
		{1.2, 24, 24},
		{0.01, 1, 1},
	}
	for _, tt := range tests {
		scaled := ScaleImage(icon, tt.scale)
		if scaled.Cols() != tt.wantW || scaled.Rows() != tt.wantH {
			t.Errorf("ScaleImage(%v) = %dx%d, want %dx%d", tt.scale, scaled.Cols(), scaled.Rows(), tt.wantW, tt.wantH)
		}
		scaled.Close()
	}
}

func TestToGrayAndBGR(t *testing.T) {
	icon := newIconMat()
	defer icon.Close()

	gray := ToGray(icon)
	defer gray.Close()
	if gray.Channels() != 1 {
		t.Errorf("ToGray 通道数应为 1, 实际 %d", gray.Channels())
	}

	bgr := ToBGR(gray)
	defer bgr.Close()
	if bgr.Channels() != 3 {
		t.Errorf("ToBGR 通道数应为 3, 实际 %d", bgr.Channels())
	}
}

func TestImageToMatChannelOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	mat, err := ImageToMat(img)
	if err != nil {
		t.Fatalf("ImageToMat 失败: %v", err)
	}
	defer mat.Close()

	if mat.Channels() != 3 || mat.Cols() != 2 || mat.Rows() != 1 {
		t.Fatalf("转换结果应为 2x1 三通道, 实际 %dx%d %d 通道", mat.Cols(), mat.Rows(), mat.Channels())
	}

	tests := []struct {
		col  int
		want [3]uint8
	}{
		{0, [3]uint8{0, 0, 255}},
		{1, [3]uint8{255, 0, 0}},
	}
	for _, tt := range tests {
		v := mat.GetVecbAt(0, tt.col)
		got := [3]uint8{v[0], v[1], v[2]}
		if got != tt.want {
			t.Errorf("像素 %d 的 B,G,R = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestImageToMatMatchesTemplateFile(t *testing.T) {
	icon := newIconMat()
	defer icon.Close()

	path := filepath.Join(t.TempDir(), "bookmark.png")
	if ok := gocv.IMWrite(path, icon); !ok {
		t.Fatalf("写入测试图标失败: %s", path)
	}
	tpl, err := LoadIconTemplate(path, false, 1.0)
	if err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	defer tpl.Close()

	// 经 image.Image 往返后应与 IMRead 读取的彩色模板完全一致
	img, err := icon.ToImage()
	if err != nil {
		t.Fatalf("Mat 转 image 失败: %v", err)
	}
	mat, err := ImageToMat(img)
	if err != nil {
		t.Fatalf("ImageToMat 失败: %v", err)
	}
	defer mat.Close()

	rects := NewIconMatcher(tpl, 0.99, []float64{1.0}).FindAll(mat)
	if len(rects) != 1 || rects[0].X != 0 || rects[0].Y != 0 {
		t.Errorf("彩色模板应在原点精确匹配, 实际 %v", rects)
	}
}

func BenchmarkIconMatcherFindAll(b *testing.B) {
	icon := newIconMat()
	defer icon.Close()

	for _, tc := range []struct {
		name      string
		downscale float64
		scales    []float64
	}{
		{"单尺度_原始", 1.0, []float64{1.0}},
		{"单尺度_缩小一半", 0.5, []float64{1.0}},
		{"多尺度_缩小一半", 0.5, DefaultScales},
	} {
		b.Run(tc.name, func(b *testing.B) {
			tpl, err := NewIconTemplate(icon, true, tc.downscale)
			if err != nil {
				b.Fatalf("创建模板失败: %v", err)
			}
			defer tpl.Close()

			capture := newCaptureMat(1440, 120, image.Pt(200, 40), image.Pt(600, 40), image.Pt(1000, 40))
			defer capture.Close()

			matcher := NewIconMatcher(tpl, DefaultThreshold, tc.scales)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				matcher.FindAll(capture)
			}
		})
	}
}

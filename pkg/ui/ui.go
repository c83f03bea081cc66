// Package ui 提供鼠标坐标追踪窗口和暂停/继续控制
package ui

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/clicker"
)

// refreshInterval 鼠标位置和状态刷新间隔
const refreshInterval = 100 * time.Millisecond

var (
	colorError   = color.NRGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	colorSuccess = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
)

// Pointer 鼠标位置查询和移动
type Pointer interface {
	Location() auto.Point
	MoveSmooth(p auto.Point)
}

// Shell 追踪窗口
type Shell struct {
	state   *clicker.RunState
	pointer Pointer
	screen  auto.Region
	stats   func() clicker.Stats

	app    fyne.App
	window fyne.Window

	positionLabel *widget.Label
	xEntry        *widget.Entry
	yEntry        *widget.Entry
	statusText    *canvas.Text
	stateLabel    *widget.Label
	pauseButton   *widget.Button
}

// NewShell 创建窗口，stats 可为 nil
func NewShell(state *clicker.RunState, pointer Pointer, screen auto.Region, stats func() clicker.Stats) *Shell {
	s := &Shell{
		state:   state,
		pointer: pointer,
		screen:  screen,
		stats:   stats,
	}
	s.build()
	return s
}

func (s *Shell) build() {
	s.app = app.New()
	s.window = s.app.NewWindow("Bookmark Clicker")
	s.window.Resize(fyne.NewSize(320, 260))
	s.window.SetFixedSize(true)

	s.positionLabel = widget.NewLabel("鼠标位置: -")
	s.positionLabel.TextStyle = fyne.TextStyle{Monospace: true}

	s.xEntry = widget.NewEntry()
	s.xEntry.SetPlaceHolder("X")
	s.yEntry = widget.NewEntry()
	s.yEntry.SetPlaceHolder("Y")

	goButton := widget.NewButtonWithIcon("Go To", theme.NavigateNextIcon(), s.onGoTo)

	s.statusText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	s.statusText.TextSize = 12

	s.stateLabel = widget.NewLabel("")
	s.pauseButton = widget.NewButton("", s.onTogglePause)

	form := widget.NewForm(
		widget.NewFormItem("X", s.xEntry),
		widget.NewFormItem("Y", s.yEntry),
	)

	s.window.SetContent(container.NewPadded(container.NewVBox(
		s.positionLabel,
		form,
		goButton,
		s.statusText,
		widget.NewSeparator(),
		s.stateLabel,
		s.pauseButton,
	)))

	s.window.SetCloseIntercept(func() {
		logger.Info("窗口关闭，请求停止")
		s.state.RequestStop()
		s.app.Quit()
	})

	s.refresh()
}

// Run 显示窗口并阻塞，直到窗口关闭或运行状态停止
func (s *Shell) Run() {
	go s.poll()
	s.window.ShowAndRun()
}

func (s *Shell) poll() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.state.Done():
			fyne.Do(func() { s.app.Quit() })
			return
		case <-ticker.C:
			fyne.Do(s.refresh)
		}
	}
}

// refresh 在 UI 线程中更新位置和状态
func (s *Shell) refresh() {
	if s.pointer != nil {
		s.positionLabel.SetText(fmt.Sprintf("鼠标位置: %s", s.pointer.Location()))
	}

	snap := s.state.Snapshot()
	text := snap.String()
	if s.stats != nil {
		st := s.stats()
		text = fmt.Sprintf("%s | 轮次 %d", text, st.Rounds)
	}
	s.stateLabel.SetText(text)

	if snap.Paused {
		s.pauseButton.SetText("继续")
		s.pauseButton.SetIcon(theme.MediaPlayIcon())
	} else {
		s.pauseButton.SetText("暂停")
		s.pauseButton.SetIcon(theme.MediaPauseIcon())
	}
}

func (s *Shell) onGoTo() {
	p, err := ParseTarget(s.xEntry.Text, s.yEntry.Text, s.screen.Width, s.screen.Height)
	if err != nil {
		s.setStatus(err.Error(), colorError)
		return
	}

	s.setStatus(fmt.Sprintf("移动到 %s", p), colorSuccess)
	go s.pointer.MoveSmooth(p)
}

func (s *Shell) onTogglePause() {
	if s.state.TogglePause() {
		logger.Info("界面操作: 暂停")
	} else {
		logger.Info("界面操作: 继续")
	}
	s.refresh()
}

func (s *Shell) setStatus(msg string, c color.Color) {
	s.statusText.Text = msg
	s.statusText.Color = c
	s.statusText.Refresh()
}

// Package clicker 实现扫描、去重、点击和看门狗的调度循环
package clicker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoeyai/bookmarkclicker/pkg/auto"
)

// State RunState 的只读快照
type State struct {
	Paused    bool
	Running   bool
	Clicks    int
	Region    auto.Region
	HasRegion bool
}

func (s State) String() string {
	status := "运行中"
	switch {
	case !s.Running:
		status = "已停止"
	case s.Paused:
		status = "已暂停"
	}
	return fmt.Sprintf("%s | 点击 %d 次", status, s.Clicks)
}

// RunState 进程级运行状态
// 热键线程只翻转原子标志，调度线程读取并更新计数
type RunState struct {
	paused  atomic.Bool
	running atomic.Bool
	clicks  atomic.Int64

	mu        sync.RWMutex
	region    auto.Region
	hasRegion bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewRunState 创建运行状态，running=true，点击数为 0，无扫描区域
func NewRunState(paused bool) *RunState {
	s := &RunState{done: make(chan struct{})}
	s.paused.Store(paused)
	s.running.Store(true)
	return s
}

// TogglePause 切换暂停状态，返回切换后的值
func (s *RunState) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetPaused 设置暂停状态
func (s *RunState) SetPaused(paused bool) {
	s.paused.Store(paused)
}

// IsPaused 是否暂停
func (s *RunState) IsPaused() bool {
	return s.paused.Load()
}

// RequestStop 请求停止，可重复调用
func (s *RunState) RequestStop() {
	s.running.Store(false)
	s.stopOnce.Do(func() { close(s.done) })
}

// IsRunning 是否仍在运行
func (s *RunState) IsRunning() bool {
	return s.running.Load()
}

// Done 停止后关闭的 channel
func (s *RunState) Done() <-chan struct{} {
	return s.done
}

// IncClicks 点击计数加一，返回新值
func (s *RunState) IncClicks() int {
	return int(s.clicks.Add(1))
}

// Clicks 当前点击数
func (s *RunState) Clicks() int {
	return int(s.clicks.Load())
}

// SetRegion 更新扫描区域
func (s *RunState) SetRegion(r auto.Region) {
	s.mu.Lock()
	s.region = r
	s.hasRegion = true
	s.mu.Unlock()
}

// Region 当前扫描区域
func (s *RunState) Region() (auto.Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region, s.hasRegion
}

// Snapshot 获取状态快照
func (s *RunState) Snapshot() State {
	region, ok := s.Region()
	return State{
		Paused:    s.IsPaused(),
		Running:   s.IsRunning(),
		Clicks:    s.Clicks(),
		Region:    region,
		HasRegion: ok,
	}
}

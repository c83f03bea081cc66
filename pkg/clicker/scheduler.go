package clicker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
	"github.com/zoeyai/bookmarkclicker/pkg/auto"
	"github.com/zoeyai/bookmarkclicker/pkg/config"
	"github.com/zoeyai/bookmarkclicker/pkg/vision"
)

// pauseInterval 暂停时的轮询间隔
const pauseInterval = 100 * time.Millisecond

// Detector 截取区域并返回原始匹配结果
type Detector interface {
	Detect(region auto.Region) (*vision.Detection, error)
}

// Clicker 在屏幕坐标点击
type Clicker interface {
	Click(p auto.Point) error
}

// Locator 查询当前扫描区域
type Locator interface {
	Locate() (auto.Region, error)
}

// Options 调度参数
type Options struct {
	ClickDelay        time.Duration
	ScanDelay         time.Duration
	WatchdogLimit     int
	BlacklistDuration int
	GroupThreshold    int
	// Screen 屏幕范围，超出的点跳过；为空时不检查
	Screen auto.Region
	// Locator 不为 nil 时每轮重新获取扫描区域
	Locator Locator
}

// OptionsFromConfig 从配置构造调度参数
func OptionsFromConfig(cfg *config.ClickerConfig, screen auto.Region) Options {
	return Options{
		ClickDelay:        cfg.ClickInterval(),
		ScanDelay:         cfg.ScanInterval(),
		WatchdogLimit:     cfg.WatchdogLimit,
		BlacklistDuration: cfg.BlacklistDuration,
		GroupThreshold:    cfg.GroupThreshold,
		Screen:            screen,
	}
}

// Stats 调度统计
type Stats struct {
	Rounds      int `json:"rounds"`
	Clicks      int `json:"clicks"`
	Skipped     int `json:"skipped"`
	Blacklisted int `json:"blacklisted"`
	Errors      int `json:"errors"`
}

func (s Stats) String() string {
	return fmt.Sprintf("轮次=%d 点击=%d 跳过=%d 屏蔽=%d 错误=%d",
		s.Rounds, s.Clicks, s.Skipped, s.Blacklisted, s.Errors)
}

// Scheduler 扫描 -> 匹配 -> 合并 -> 决策/点击 循环
type Scheduler struct {
	state    *RunState
	detector Detector
	clicker  Clicker
	opts     Options

	blacklist *Blacklist
	lastRound map[auto.Point]struct{}

	mu    sync.Mutex
	stats Stats

	// sleep 可中断的等待，ctx 结束时返回 false
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewScheduler 创建调度器
func NewScheduler(state *RunState, detector Detector, clicker Clicker, opts Options) *Scheduler {
	if opts.GroupThreshold <= 0 {
		opts.GroupThreshold = vision.DefaultGroupThreshold
	}
	return &Scheduler{
		state:     state,
		detector:  detector,
		clicker:   clicker,
		opts:      opts,
		blacklist: NewBlacklist(),
		lastRound: make(map[auto.Point]struct{}),
		sleep:     sleepContext,
	}
}

// Run 运行调度循环，直到 running=false 或 ctx 结束
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("调度循环启动: 看门狗=%d, 屏蔽轮数=%d, 点击间隔=%v, 扫描间隔=%v",
		s.opts.WatchdogLimit, s.opts.BlacklistDuration, s.opts.ClickDelay, s.opts.ScanDelay)
	defer func() {
		logger.Info("调度循环结束: %s", s.Stats())
	}()

	for s.state.IsRunning() {
		if err := ctx.Err(); err != nil {
			s.state.RequestStop()
			return err
		}

		if s.state.IsPaused() {
			s.sleep(ctx, pauseInterval)
			continue
		}

		s.runCycle(ctx)

		if !s.state.IsRunning() {
			break
		}
		s.sleep(ctx, s.opts.ScanDelay)
	}
	return nil
}

// Stats 统计快照
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// runCycle 执行一轮扫描，错误和 panic 只记录日志
func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("扫描周期 panic: %v\n%s", r, debug.Stack())
			s.addStats(func(st *Stats) { st.Errors++ })
		}
	}()

	region, ok := s.currentRegion()
	if !ok {
		return
	}

	if err := s.scanRound(ctx, region); err != nil {
		logger.Error("扫描失败: %v", err)
		s.addStats(func(st *Stats) { st.Errors++ })
	}
}

// currentRegion 有定位器时每轮重新定位，定位失败则本轮不扫描
func (s *Scheduler) currentRegion() (auto.Region, bool) {
	if s.opts.Locator == nil {
		region, ok := s.state.Region()
		if !ok {
			logger.Warn("尚未获取扫描区域，等待下一轮")
		}
		return region, ok
	}

	region, err := s.opts.Locator.Locate()
	if err != nil {
		logger.LogEvent("RGN", false, 0, fmt.Sprintf("定位浏览器窗口失败，跳过本轮: %v", err))
		return auto.Region{}, false
	}
	if prev, ok := s.state.Region(); !ok || prev != region {
		logger.LogEvent("RGN", true, 0, fmt.Sprintf("扫描区域更新 %s", region))
	}
	s.state.SetRegion(region)
	return region, true
}

// scanRound 一轮：检测、合并、逐点决策，最后更新历史并递减屏蔽表
func (s *Scheduler) scanRound(ctx context.Context, region auto.Region) error {
	start := time.Now()
	detection, err := s.detector.Detect(region)
	if err != nil {
		return err
	}

	groups := vision.GroupRects(detection.Rects, s.opts.GroupThreshold)
	logger.LogEvent("SCAN", true, msSince(start),
		fmt.Sprintf("区域 %s 匹配 %d 个, 合并后 %d 个", region, len(detection.Rects), len(groups)))

	clicked := make(map[auto.Point]struct{})
	s.processGroups(ctx, detection, groups, clicked)

	s.lastRound = clicked
	s.blacklist.Tick()
	s.addStats(func(st *Stats) { st.Rounds++ })
	return nil
}

func (s *Scheduler) processGroups(ctx context.Context, detection *vision.Detection, groups []vision.MatchRect, clicked map[auto.Point]struct{}) {
	for _, rect := range groups {
		if !s.state.IsRunning() || s.state.IsPaused() {
			logger.Info("已暂停或停止，放弃本轮剩余 %s", rect)
			return
		}

		p := detection.ScreenPoint(rect)

		if !s.opts.Screen.Empty() && !s.opts.Screen.Contains(p) {
			logger.Warn("点击点 %s 超出屏幕 %s，跳过", p, s.opts.Screen)
			s.addStats(func(st *Stats) { st.Skipped++ })
			continue
		}

		if s.blacklist.Contains(p) {
			logger.Debug("点 %s 在屏蔽表中（剩余 %d 轮），跳过", p, s.blacklist.Remaining(p))
			s.addStats(func(st *Stats) { st.Skipped++ })
			continue
		}

		if _, ok := s.lastRound[p]; ok {
			s.blacklist.Add(p, s.opts.BlacklistDuration)
			logger.Info("点 %s 上一轮已点击，屏蔽 %d 轮", p, s.opts.BlacklistDuration)
			s.addStats(func(st *Stats) { st.Blacklisted++ })
			continue
		}

		if s.watchdogTripped() {
			return
		}

		start := time.Now()
		if err := s.clicker.Click(p); err != nil {
			logger.LogEvent("CLK", false, msSince(start), fmt.Sprintf("%s: %v", p, err))
			s.addStats(func(st *Stats) { st.Errors++ })
			continue
		}

		count := s.state.IncClicks()
		clicked[p] = struct{}{}
		s.addStats(func(st *Stats) { st.Clicks++ })
		logger.LogEvent("CLK", true, msSince(start),
			fmt.Sprintf("%s 置信度 %.3f 尺度 %.1f 第 %d 次", p, rect.Confidence, rect.Scale, count))

		if s.watchdogTripped() {
			return
		}
		s.sleep(ctx, s.opts.ClickDelay)
	}
}

// watchdogTripped 点击数达到上限时立即停止
func (s *Scheduler) watchdogTripped() bool {
	limit := s.opts.WatchdogLimit
	if limit <= 0 {
		return false
	}
	if count := s.state.Clicks(); count >= limit {
		logger.Warn("看门狗触发: 已点击 %d 次（上限 %d），停止运行", count, limit)
		s.state.RequestStop()
		return true
	}
	return false
}

func (s *Scheduler) addStats(fn func(*Stats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// WaitForRegion 每隔 interval 查询一次扫描区域，直到成功、停止或 ctx 结束
func WaitForRegion(ctx context.Context, state *RunState, locator Locator, interval time.Duration) (auto.Region, error) {
	start := time.Now()
	attempt := 0
	for {
		attempt++
		region, err := locator.Locate()
		if err == nil {
			state.SetRegion(region)
			logger.LogEvent("RGN", true, msSince(start), fmt.Sprintf("检测到浏览器区域 %s（第 %d 次）", region, attempt))
			return region, nil
		}
		if attempt == 1 {
			logger.Info("等待浏览器窗口置于前台: %v", err)
		} else {
			logger.Debug("第 %d 次检测浏览器失败: %v", attempt, err)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return auto.Region{}, ctx.Err()
		case <-state.Done():
			timer.Stop()
			return auto.Region{}, fmt.Errorf("等待浏览器时已停止")
		case <-timer.C:
		}
	}
}

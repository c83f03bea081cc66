package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
	"github.com/zoeyai/bookmarkclicker/pkg/auto/input"
	"github.com/zoeyai/bookmarkclicker/pkg/auto/screen"
	"github.com/zoeyai/bookmarkclicker/pkg/auto/window"
	"github.com/zoeyai/bookmarkclicker/pkg/clicker"
	"github.com/zoeyai/bookmarkclicker/pkg/config"
	"github.com/zoeyai/bookmarkclicker/pkg/hotkey"
	"github.com/zoeyai/bookmarkclicker/pkg/permissions"
	"github.com/zoeyai/bookmarkclicker/pkg/ui"
	"github.com/zoeyai/bookmarkclicker/pkg/vision/cv"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// shutdownTimeout 退出时等待调度循环结束的最长时间
const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// 命令行参数
	var (
		headless    = flag.Bool("headless", false, "无界面模式运行")
		configPath  = flag.String("config", "", "配置文件路径 (.json/.yaml/.ini)")
		imagePath   = flag.String("image", "", "书签图标路径")
		limit       = flag.Int("limit", 0, "点击次数上限（看门狗）")
		startPaused = flag.Bool("start-paused", false, "启动后处于暂停状态")
		saveConfig  = flag.Bool("save", false, "保存配置到本地")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}
	if *showHelp {
		printHelp()
		return 0
	}

	manager := config.GetDefaultManager()
	if *configPath != "" {
		manager = config.NewManagerWithFile(*configPath)
	}

	cfg, err := manager.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败，使用默认配置: %v\n", err)
	}

	// 命令行参数优先级高于配置文件
	if *imagePath != "" {
		cfg.ImagePath = *imagePath
	}
	if *limit > 0 {
		cfg.WatchdogLimit = *limit
	}

	paused := cfg.StartPaused
	if *headless {
		paused = false
	}
	if flagPassed("start-paused") {
		paused = *startPaused
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("[ERROR] 配置无效: %v\n", err)
		return 1
	}

	if err := logger.Configure(logger.Options{
		Level:    cfg.LogLevel,
		Console:  true,
		FilePath: cfg.LogFile,
	}); err != nil {
		fmt.Printf("[WARN] 日志文件不可用: %v\n", err)
	}
	defer logger.Close()

	if *saveConfig {
		if err := manager.Save(cfg); err != nil {
			logger.Warn("保存配置失败: %v", err)
		} else {
			logger.Info("配置已保存到 %s", manager.GetConfigFile())
		}
	}

	logger.Info("Bookmark Clicker v%s 启动 (headless=%v)", Version, *headless)
	logger.Info("图标: %s, 置信度: %.2f, 缩放: %.2f, 灰度: %v, 多尺度: %v",
		cfg.ImagePath, cfg.Confidence, cfg.DownscaleFactor, cfg.UseGrayscale, cfg.MultiScale)

	if !permissions.LogStatus() && !*headless {
		permissions.OpenMissingSettings(permissions.CheckPermissions())
	}

	template, err := cv.LoadIconTemplate(cfg.ImagePath, cfg.UseGrayscale, cfg.DownscaleFactor)
	if err != nil {
		logger.Error("加载图标模板失败: %v", err)
		return 1
	}
	defer template.Close()
	logger.Info("图标模板已加载: %s", template)

	state := clicker.NewRunState(paused)

	keys, err := hotkey.NewController(cfg.ToggleHotkey, cfg.ExitHotkey, state)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	keys.Start()
	defer keys.Stop()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()
	go func() {
		select {
		case <-state.Done():
		case <-ctx.Done():
			logger.Info("收到退出信号")
		}
		state.RequestStop()
		cancel()
	}()

	bounds := screen.ScreenBounds()
	locator := window.NewBrowserLocator(cfg.Browsers, cfg.ToolbarHeight)
	mouse := input.NewMouse()

	opts := clicker.OptionsFromConfig(cfg, bounds)
	opts.Locator = locator
	matcher := cv.NewIconMatcher(template, cfg.Confidence, cfg.Scales())
	scheduler := clicker.NewScheduler(state, screen.NewDetector(matcher), mouse, opts)

	if paused {
		logger.Info("当前处于暂停状态，按 %s 开始/暂停，按 %s 退出", cfg.ToggleHotkey, cfg.ExitHotkey)
	} else {
		logger.Info("按 %s 暂停，按 %s 退出", cfg.ToggleHotkey, cfg.ExitHotkey)
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if _, err := clicker.WaitForRegion(ctx, state, locator, cfg.RegionRetryInterval()); err != nil {
			logger.Info("未开始扫描: %v", err)
			return
		}
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("调度循环异常结束: %v", err)
		}
	}()

	if *headless {
		<-runDone
	} else {
		ui.NewShell(state, mouse, bounds, scheduler.Stats).Run()
		state.RequestStop()
		select {
		case <-runDone:
		case <-time.After(shutdownTimeout):
			logger.Warn("等待调度循环结束超时")
		}
	}

	logger.Info("已退出，共点击 %d 次 (%s)", state.Clicks(), scheduler.Stats())
	return 0
}

// flagPassed 命令行中是否显式指定了该参数
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("Bookmark Clicker v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("Bookmark Clicker - 自动点击浏览器中的书签图标")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  bookmarkclicker [选项]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -headless           无界面模式运行（默认立即开始）")
	fmt.Println("  -config string      配置文件路径 (.json/.yaml/.ini)")
	fmt.Println("  -image string       书签图标路径")
	fmt.Println("  -limit int          点击次数上限（看门狗）")
	fmt.Println("  -start-paused       启动后处于暂停状态")
	fmt.Println("  -save               保存配置到本地")
	fmt.Println("  -version            显示版本信息")
	fmt.Println("  -help               显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 打开追踪窗口，按快捷键开始")
	fmt.Println("  bookmarkclicker")
	fmt.Println()
	fmt.Println("  # 无界面运行，最多点击 20 次")
	fmt.Println("  bookmarkclicker -headless -limit 20")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", config.GetDefaultManager().GetConfigFile())
}

// Package hotkey 注册全局快捷键：切换暂停和退出
package hotkey

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/zoeyai/bookmarkclicker/internal/logger"
)

// Chord 组合键，Key 为主键，Modifiers 按出现顺序保存
type Chord struct {
	Key       string
	Modifiers []string
}

// modifierAliases 修饰键别名 -> gohook 键名
var modifierAliases = map[string]string{
	"cmd":     "cmd",
	"command": "cmd",
	"super":   "cmd",
	"win":     "cmd",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
}

// ParseChord 解析 "<cmd>+<shift>+s" 形式的组合键
// 修饰键可写为 <name> 或裸名称，主键必须恰好一个
func ParseChord(s string) (Chord, error) {
	var c Chord
	if strings.TrimSpace(s) == "" {
		return c, fmt.Errorf("快捷键为空")
	}

	seen := make(map[string]bool)
	for _, raw := range strings.Split(s, "+") {
		token := strings.ToLower(strings.TrimSpace(raw))
		token = strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		if token == "" {
			return Chord{}, fmt.Errorf("快捷键 %q 格式错误", s)
		}

		if mod, ok := modifierAliases[token]; ok {
			if !seen[mod] {
				seen[mod] = true
				c.Modifiers = append(c.Modifiers, mod)
			}
			continue
		}

		if c.Key != "" {
			return Chord{}, fmt.Errorf("快捷键 %q 包含多个主键: %s, %s", s, c.Key, token)
		}
		c.Key = token
	}

	if c.Key == "" {
		return Chord{}, fmt.Errorf("快捷键 %q 缺少主键", s)
	}
	return c, nil
}

// Keys gohook 注册所需的键列表，主键在前
func (c Chord) Keys() []string {
	keys := make([]string, 0, len(c.Modifiers)+1)
	keys = append(keys, c.Key)
	return append(keys, c.Modifiers...)
}

// Equal 主键和修饰键集合相同（忽略顺序）
func (c Chord) Equal(o Chord) bool {
	if c.Key != o.Key || len(c.Modifiers) != len(o.Modifiers) {
		return false
	}
	for _, m := range c.Modifiers {
		if !slices.Contains(o.Modifiers, m) {
			return false
		}
	}
	return true
}

func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, "<"+m+">")
	}
	return strings.Join(append(parts, c.Key), "+")
}

// Target 快捷键作用对象
type Target interface {
	TogglePause() bool
	RequestStop()
}

// Controller 全局快捷键控制器
// 回调在 gohook 的事件线程中执行，只翻转 Target 的原子标志
type Controller struct {
	toggle Chord
	exit   Chord
	target Target

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

// NewController 解析两个组合键并创建控制器
func NewController(toggle, exit string, target Target) (*Controller, error) {
	tc, err := ParseChord(toggle)
	if err != nil {
		return nil, fmt.Errorf("暂停快捷键无效: %w", err)
	}
	ec, err := ParseChord(exit)
	if err != nil {
		return nil, fmt.Errorf("退出快捷键无效: %w", err)
	}
	if tc.Equal(ec) {
		return nil, fmt.Errorf("暂停和退出快捷键不能相同: %s", tc)
	}
	return &Controller{toggle: tc, exit: ec, target: target}, nil
}

// OnToggle 暂停快捷键回调
func (c *Controller) OnToggle() {
	if c.target.TogglePause() {
		logger.Info("已暂停 (%s 继续)", c.toggle)
	} else {
		logger.Info("已继续运行 (%s 暂停)", c.toggle)
	}
}

// OnExit 退出快捷键回调
func (c *Controller) OnExit() {
	logger.Info("收到退出快捷键 %s", c.exit)
	c.target.RequestStop()
}

// Start 注册快捷键并在后台处理事件
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}

	hook.Register(hook.KeyDown, c.exit.Keys(), func(hook.Event) { c.OnExit() })
	hook.Register(hook.KeyDown, c.toggle.Keys(), func(hook.Event) { c.OnToggle() })

	events := hook.Start()
	c.done = make(chan struct{})
	c.started = true

	go func() {
		defer close(c.done)
		<-hook.Process(events)
	}()

	logger.Info("快捷键已注册: 暂停/继续 %s, 退出 %s", c.toggle, c.exit)
}

// Stop 结束事件监听
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	hook.End()
	c.started = false
}

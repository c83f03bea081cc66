package hotkey

import (
	"reflect"
	"testing"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		in       string
		wantKey  string
		wantMods []string
		wantErr  bool
	}{
		{"<cmd>+<shift>+s", "s", []string{"cmd", "shift"}, false},
		{"<cmd>+<shift>+q", "q", []string{"cmd", "shift"}, false},
		{"ctrl+alt+P", "p", []string{"ctrl", "alt"}, false},
		{"<command>+<option>+x", "x", []string{"cmd", "alt"}, false},
		{"<super>+<cmd>+k", "k", []string{"cmd"}, false},
		{"f5", "f5", nil, false},
		{"", "", nil, true},
		{"<cmd>+<shift>", "", nil, true},
		{"<cmd>++s", "", nil, true},
		{"a+b", "", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseChord(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChord(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got.Key != tt.wantKey || !reflect.DeepEqual(got.Modifiers, tt.wantMods) {
			t.Errorf("ParseChord(%q) = %+v, want key=%s mods=%v", tt.in, got, tt.wantKey, tt.wantMods)
		}
	}
}

func TestChordKeysAndString(t *testing.T) {
	c, err := ParseChord("<cmd>+<shift>+s")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if keys := c.Keys(); !reflect.DeepEqual(keys, []string{"s", "cmd", "shift"}) {
		t.Errorf("Keys() = %v", keys)
	}
	if s := c.String(); s != "<cmd>+<shift>+s" {
		t.Errorf("String() = %q", s)
	}
}

type fakeTarget struct {
	paused  bool
	stopped bool
}

func (f *fakeTarget) TogglePause() bool {
	f.paused = !f.paused
	return f.paused
}

func (f *fakeTarget) RequestStop() { f.stopped = true }

func TestControllerCallbacks(t *testing.T) {
	target := &fakeTarget{}
	c, err := NewController("<cmd>+<shift>+s", "<cmd>+<shift>+q", target)
	if err != nil {
		t.Fatalf("创建控制器失败: %v", err)
	}

	c.OnToggle()
	if !target.paused {
		t.Error("第一次切换后应暂停")
	}
	c.OnToggle()
	if target.paused {
		t.Error("第二次切换后应继续")
	}

	c.OnExit()
	if !target.stopped {
		t.Error("退出快捷键应请求停止")
	}
}

func TestNewControllerInvalid(t *testing.T) {
	target := &fakeTarget{}
	if _, err := NewController("<cmd>+", "<cmd>+q", target); err == nil {
		t.Error("无效的暂停快捷键应返回错误")
	}
	if _, err := NewController("<cmd>+s", "", target); err == nil {
		t.Error("无效的退出快捷键应返回错误")
	}
	if _, err := NewController("<cmd>+<shift>+s", "<shift>+<cmd>+S", target); err == nil {
		t.Error("相同的快捷键应返回错误")
	}
}

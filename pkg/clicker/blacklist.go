package clicker

import "github.com/zoeyai/bookmarkclicker/pkg/auto"

// Blacklist 点击点的短期屏蔽表，值为剩余轮数
// 只由调度线程访问
type Blacklist struct {
	entries map[auto.Point]int
}

// NewBlacklist 创建空屏蔽表
func NewBlacklist() *Blacklist {
	return &Blacklist{entries: make(map[auto.Point]int)}
}

// Contains 点是否被屏蔽
func (b *Blacklist) Contains(p auto.Point) bool {
	_, ok := b.entries[p]
	return ok
}

// Add 屏蔽 rounds 轮，rounds <= 0 时不记录
func (b *Blacklist) Add(p auto.Point, rounds int) {
	if rounds <= 0 {
		return
	}
	b.entries[p] = rounds
}

// Tick 每轮结束调用一次：所有条目减一，删除归零的条目
func (b *Blacklist) Tick() {
	for p, n := range b.entries {
		if n <= 1 {
			delete(b.entries, p)
			continue
		}
		b.entries[p] = n - 1
	}
}

// Remaining 剩余轮数，未屏蔽时返回 0
func (b *Blacklist) Remaining(p auto.Point) int {
	return b.entries[p]
}

// Len 条目数
func (b *Blacklist) Len() int {
	return len(b.entries)
}

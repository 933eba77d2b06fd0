package game

import (
	"math"
	"time"
)

// Clock 是调度器使用的时间源，返回自启动以来的毫秒数
type Clock interface {
	ElapsedMillis() int64
}

// Stopwatch 是基于挂钟时间的可重启计时器
//
// 既可以作为调度器的自由运行时钟（从不调用 Restart），
// 也可以作为帧间隔计时器（每帧调用一次 Restart）。
type Stopwatch struct {
	now   func() time.Time
	start time.Time
}

// NewStopwatch 创建并立即启动计时器。now 为 nil 时使用 time.Now。
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now, start: now()}
}

// Elapsed 返回自上次启动以来经过的时间
func (s *Stopwatch) Elapsed() time.Duration {
	return s.now().Sub(s.start)
}

// ElapsedMillis 实现 Clock
func (s *Stopwatch) ElapsedMillis() int64 {
	return s.Elapsed().Milliseconds()
}

// Restart 重新开始计时，返回重启前经过的时间
func (s *Stopwatch) Restart() time.Duration {
	now := s.now()
	elapsed := now.Sub(s.start)
	s.start = now
	return elapsed
}

// ManualClock 是手动推进的 Clock，用于无头运行和测试
type ManualClock struct {
	elapsed time.Duration
}

// Advance 把时钟向前推进 d
func (c *ManualClock) Advance(d time.Duration) {
	c.elapsed += d
}

// Now 返回以零时刻为起点的当前时间，可以传给 NewStopwatch
func (c *ManualClock) Now() time.Time {
	return time.Time{}.Add(c.elapsed)
}

// ElapsedMillis 实现 Clock
func (c *ManualClock) ElapsedMillis() int64 {
	return c.elapsed.Milliseconds()
}

// FPSCounter 根据相邻两帧的间隔计算瞬时帧率
type FPSCounter struct {
	frameTimer *Stopwatch
	fps        float64
}

// NewFPSCounter 创建帧率计数器
func NewFPSCounter(now func() time.Time) *FPSCounter {
	return &FPSCounter{frameTimer: NewStopwatch(now)}
}

// Tick 在每帧开始时调用，返回四舍五入后的帧率。
// 两次调用之间没有经过时间时保留上一次的值。
func (f *FPSCounter) Tick() float64 {
	delta := f.frameTimer.Restart()
	if delta > 0 {
		f.fps = math.Round(float64(time.Second) / float64(delta))
	}
	return f.fps
}

// FPS 返回最近一次计算的帧率
func (f *FPSCounter) FPS() float64 {
	return f.fps
}

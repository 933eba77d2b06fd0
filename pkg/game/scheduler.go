package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/systems"
	"github.com/decker502/particlestorm/pkg/types"
)

// State 调度器状态
type State int

const (
	// StateRunning 正在运行
	StateRunning State = iota
	// StateStopped 已停止（终态）
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SchedulerOptions 调度器依赖和参数
type SchedulerOptions struct {
	Clock    Clock
	Input    InputSource
	Display  Display
	System   *systems.ParticleSystem
	Controls *Controls
	// Overlay 为 nil 时不输出叠加层文字
	Overlay *Overlay
	// FPS 为 nil 时使用挂钟时间计算帧率
	FPS *FPSCounter

	UpdateStepMs     int
	MaxStepsPerFrame int

	Logger *zap.Logger
}

// Scheduler 是固定步长调度器
//
// 每帧先根据时钟执行有限个固定步长的模拟步（每步先处理输入），
// 然后渲染一次。落后超过 MaxStepsPerFrame 步时剩余的步数顺延到下一帧。
type Scheduler struct {
	clock    Clock
	input    InputSource
	display  Display
	ps       *systems.ParticleSystem
	controls *Controls
	overlay  *Overlay
	fps      *FPSCounter

	stepMs     int64
	stepDt     float32
	maxSteps   int
	nextUpdate int64
	state      State

	frames uint64
	steps  uint64

	logger *zap.Logger
}

// NewScheduler 创建调度器，nextUpdate 从时钟的当前值开始
func NewScheduler(opts SchedulerOptions) (*Scheduler, error) {
	switch {
	case opts.Clock == nil:
		return nil, errors.New("scheduler: clock is required")
	case opts.Input == nil:
		return nil, errors.New("scheduler: input source is required")
	case opts.Display == nil:
		return nil, errors.New("scheduler: display is required")
	case opts.System == nil:
		return nil, errors.New("scheduler: particle system is required")
	case opts.Controls == nil:
		return nil, errors.New("scheduler: controls are required")
	}
	if opts.UpdateStepMs <= 0 {
		return nil, fmt.Errorf("scheduler: update step must be > 0, got %d", opts.UpdateStepMs)
	}
	if opts.MaxStepsPerFrame < 1 {
		return nil, fmt.Errorf("scheduler: max steps per frame must be >= 1, got %d", opts.MaxStepsPerFrame)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fps := opts.FPS
	if fps == nil {
		fps = NewFPSCounter(nil)
	}

	return &Scheduler{
		clock:      opts.Clock,
		input:      opts.Input,
		display:    opts.Display,
		ps:         opts.System,
		controls:   opts.Controls,
		overlay:    opts.Overlay,
		fps:        fps,
		stepMs:     int64(opts.UpdateStepMs),
		stepDt:     float32(opts.UpdateStepMs) / 1000,
		maxSteps:   opts.MaxStepsPerFrame,
		nextUpdate: opts.Clock.ElapsedMillis(),
		state:      StateRunning,
		logger:     logger,
	}, nil
}

// State 返回当前状态
func (s *Scheduler) State() State {
	return s.state
}

// Stop 进入 Stopped 状态，之后 Frame 不再做任何事
func (s *Scheduler) Stop() {
	if s.state == StateStopped {
		return
	}
	s.state = StateStopped
	s.logger.Info("scheduler stopped",
		zap.Uint64("frames", s.frames),
		zap.Uint64("steps", s.steps),
		zap.Int("particles", s.ps.ParticleCount()))
}

// Frame 执行一帧：若干模拟步加一次渲染，返回本帧执行的步数。
//
// 在某一步中收到退出请求时立即停止，本帧剩余的步和渲染都被跳过。
func (s *Scheduler) Frame() int {
	if s.state != StateRunning {
		return 0
	}
	s.fps.Tick()

	steps := 0
	for s.clock.ElapsedMillis() > s.nextUpdate && steps < s.maxSteps {
		if !s.processInput() {
			s.Stop()
			return steps
		}
		s.ps.Update(s.stepDt)
		s.nextUpdate += s.stepMs
		steps++
	}
	s.steps += uint64(steps)

	s.render()
	s.frames++
	return steps
}

// processInput 处理排队的事件和指针状态，收到退出请求时返回 false
func (s *Scheduler) processInput() bool {
	for _, ev := range s.input.PollEvents() {
		switch s.controls.HandleEvent(ev) {
		case types.ActionQuit:
			return false
		case types.ActionToggleFullscreen:
			s.display.ToggleFullscreen()
		}
	}
	s.controls.ApplyPointer(s.input)
	return true
}

func (s *Scheduler) render() {
	frame := Frame{Scene: s.ps}
	if s.overlay != nil {
		frame.Overlay = s.overlay.Lines(Stats{
			FPS:             s.fps.FPS(),
			Particles:       s.ps.ParticleCount(),
			Speed:           s.ps.ParticleSpeed(),
			DissolutionRate: s.ps.DissolutionRate(),
			Dissolving:      s.ps.Dissolving(),
			Shape:           s.ps.Shape(),
		})
	}
	s.display.Present(frame)
}

// Run 以固定间隔驱动 Frame，直到调度器停止或 ctx 取消。
// 用于自己驱动帧循环的后端（终端）。
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: frame interval must be > 0, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler running", zap.Duration("frameInterval", interval))
	for s.state == StateRunning {
		if err := ctx.Err(); err != nil {
			s.Stop()
			return err
		}
		s.Frame()
		if s.state != StateRunning {
			break
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

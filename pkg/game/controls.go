package game

import (
	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/systems"
	"github.com/decker502/particlestorm/pkg/types"
)

// ControlsOptions 输入映射参数
type ControlsOptions struct {
	// Bindings 按键 → 动作
	Bindings map[types.Key]types.Action
	// EmitBurst 左键按住时每步发射的粒子数
	EmitBurst int
	// GravityDragFactor 右键拖动时重力 = (上次指针 - 当前指针) * 系数
	GravityDragFactor float32
	// SpeedStep 速度每次按比例调整的幅度（0.1 即 10%）
	SpeedStep float32
}

// Controls 把输入事件和指针状态映射为粒子系统参数的修改
//
// 只修改参数，不推进模拟。需要调度器处理的动作（退出、全屏）
// 由 HandleEvent 返回。
type Controls struct {
	ps          *systems.ParticleSystem
	opts        ControlsOptions
	lastPointer components.Vec2
	logger      *zap.Logger
}

// NewControls 创建输入映射。lastPointer 初始为画布尺寸（右下角）。
func NewControls(ps *systems.ParticleSystem, opts ControlsOptions, logger *zap.Logger) *Controls {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, h := ps.CanvasBounds()
	return &Controls{
		ps:          ps,
		opts:        opts,
		lastPointer: components.Vec2{X: float32(w), Y: float32(h)},
		logger:      logger,
	}
}

// Bindings 返回当前按键绑定
func (c *Controls) Bindings() map[types.Key]types.Action {
	return c.opts.Bindings
}

// HandleEvent 处理一个离散事件
//
// 返回值是调度器需要执行的动作：ActionQuit 或 ActionToggleFullscreen，
// 其余情况返回 ActionNone。
func (c *Controls) HandleEvent(ev InputEvent) types.Action {
	switch ev.Type {
	case EventClosed:
		return types.ActionQuit
	case EventResized:
		if ev.Width > 0 && ev.Height > 0 {
			c.ps.SetCanvasBounds(uint32(ev.Width), uint32(ev.Height))
			c.logger.Debug("canvas resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		}
		return types.ActionNone
	case EventKeyDown:
		action, ok := c.opts.Bindings[ev.Key]
		if !ok {
			return types.ActionNone
		}
		return c.Apply(action)
	}
	return types.ActionNone
}

// Apply 执行一个动作
func (c *Controls) Apply(action types.Action) types.Action {
	switch action {
	case types.ActionToggleDissolve:
		c.ps.ToggleDissolve()
	case types.ActionDissolveSlower:
		if rate := c.ps.DissolutionRate(); rate > 0 {
			c.ps.SetDissolutionRate(rate - 1)
		}
	case types.ActionDissolveFaster:
		c.ps.SetDissolutionRate(c.ps.DissolutionRate() + 1)
	case types.ActionSpeedDown:
		if speed := c.ps.ParticleSpeed(); speed > 0 {
			c.ps.SetParticleSpeed(speed - speed*c.opts.SpeedStep)
		}
	case types.ActionSpeedUp:
		speed := c.ps.ParticleSpeed()
		c.ps.SetParticleSpeed(speed + speed*c.opts.SpeedStep)
	case types.ActionToggleShape:
		c.ps.ToggleShape()
	case types.ActionQuit, types.ActionToggleFullscreen:
		return action
	default:
		return types.ActionNone
	}

	c.logger.Debug("action applied",
		zap.Stringer("action", action),
		zap.Float32("speed", c.ps.ParticleSpeed()),
		zap.Int("dissolutionRate", c.ps.DissolutionRate()),
		zap.Bool("dissolve", c.ps.Dissolving()),
		zap.Stringer("shape", c.ps.Shape()))
	return types.ActionNone
}

// ApplyPointer 根据指针位置和按键状态修改发射点、发射量和重力
func (c *Controls) ApplyPointer(input InputSource) {
	pointer := input.PointerPosition()
	c.ps.SetEmitterPosition(pointer)

	if input.IsButtonPressed(ButtonPrimary) {
		c.ps.Emit(c.opts.EmitBurst)
	}
	if input.IsButtonPressed(ButtonSecondary) {
		c.ps.SetGravity(c.lastPointer.Sub(pointer).Scale(c.opts.GravityDragFactor))
	}
	if input.IsButtonPressed(ButtonTertiary) {
		c.ps.SetGravity(components.Vec2{})
	}

	c.lastPointer = pointer
}

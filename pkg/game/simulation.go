package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/systems"
)

// Simulation 是按配置组装好的粒子系统、输入映射和叠加层
//
// 各显示后端共用同一套组装逻辑，只提供各自的时钟、输入源和显示。
type Simulation struct {
	System   *systems.ParticleSystem
	Controls *Controls
	Overlay  *Overlay

	cfg    *config.Config
	logger *zap.Logger
}

// NewSimulation 按配置创建粒子系统并在画布中心发射初始粒子
func NewSimulation(cfg *config.Config, canvasWidth, canvasHeight int, logger *zap.Logger) (*Simulation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", canvasWidth, canvasHeight)
	}

	bindings, err := cfg.KeyBindings()
	if err != nil {
		return nil, fmt.Errorf("key bindings: %w", err)
	}

	ps := systems.NewParticleSystem(uint32(canvasWidth), uint32(canvasHeight), systems.NewRand(cfg.Particles.Seed))
	ps.SetParticleSpeed(float32(cfg.Particles.Speed))
	ps.SetDissolutionRate(cfg.Particles.DissolutionRate)
	ps.SetDissolve(cfg.Particles.Dissolve)
	ps.SetShape(cfg.EmissionShape())
	ps.Emit(cfg.Particles.InitialCount)

	controls := NewControls(ps, ControlsOptions{
		Bindings:          bindings,
		EmitBurst:         cfg.Particles.EmitBurst,
		GravityDragFactor: float32(cfg.Controls.GravityDragFactor),
		SpeedStep:         float32(cfg.Particles.SpeedStep),
	}, logger.Named("controls"))

	var overlay *Overlay
	if cfg.Overlay.Enabled {
		overlay = NewOverlay(bindings, cfg.Overlay.ShowHelp)
	}

	logger.Info("simulation ready",
		zap.Int("canvasWidth", canvasWidth),
		zap.Int("canvasHeight", canvasHeight),
		zap.Int("particles", ps.ParticleCount()),
		zap.Stringer("shape", ps.Shape()),
		zap.Uint64("seed", cfg.Particles.Seed))

	return &Simulation{
		System:   ps,
		Controls: controls,
		Overlay:  overlay,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// NewScheduler 用配置中的步长参数创建调度器
func (sim *Simulation) NewScheduler(clock Clock, input InputSource, display Display, fps *FPSCounter) (*Scheduler, error) {
	return NewScheduler(SchedulerOptions{
		Clock:            clock,
		Input:            input,
		Display:          display,
		System:           sim.System,
		Controls:         sim.Controls,
		Overlay:          sim.Overlay,
		FPS:              fps,
		UpdateStepMs:     sim.cfg.Scheduler.UpdateStepMs,
		MaxStepsPerFrame: sim.cfg.Scheduler.MaxStepsPerFrame,
		Logger:           sim.logger.Named("scheduler"),
	})
}

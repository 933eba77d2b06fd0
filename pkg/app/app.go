// Package app 提供 ebiten 窗口后端
//
// 该包将窗口后端的初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/game"
	"github.com/decker502/particlestorm/pkg/systems"
	"github.com/decker502/particlestorm/pkg/utils"
)

// overlayOffset 叠加层文字相对窗口尺寸的偏移比例
const overlayOffset = 0.01

// App 是 ebiten 后端，实现 ebiten.Game 和 game.Display
type App struct {
	cfg       *config.Config
	sim       *game.Simulation
	scheduler *game.Scheduler
	input     *ebitenInput
	renderer  *PointRenderer
	face      *text.GoTextFace

	// Present 时复制的渲染快照，Draw 只读取这里
	points  systems.PointBuffer
	overlay string

	width, height int

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	logger *zap.Logger
}

// NewApp 创建窗口后端
//
// 字体加载失败时返回错误；overlay.fontPath 为空时使用内置等宽字体。
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:      cfg,
		input:    &ebitenInput{},
		renderer: NewPointRenderer(1),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		logger:   logger.Named("app"),
	}

	if cfg.Overlay.Enabled {
		rm := NewResourceManager()
		var err error
		if cfg.Overlay.FontPath != "" {
			a.face, err = rm.LoadFont(cfg.Overlay.FontPath, cfg.Overlay.FontSize)
		} else {
			a.face, err = rm.LoadDefaultFont(cfg.Overlay.FontSize)
		}
		if err != nil {
			return nil, fmt.Errorf("overlay font: %w", err)
		}
	}

	sim, err := game.NewSimulation(cfg, cfg.Window.Width, cfg.Window.Height, logger)
	if err != nil {
		return nil, err
	}
	a.sim = sim

	a.scheduler, err = sim.NewScheduler(game.NewStopwatch(nil), a.input, a, nil)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ConfigureWindow 按配置设置窗口属性，必须在 ebiten.RunGame 之前调用
func (a *App) ConfigureWindow() {
	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(a.cfg.Window.VSync)
	ebiten.SetFullscreen(a.cfg.Window.Fullscreen)
	// 调度器自己按时钟决定模拟步数，Update 每帧调用一次即可
	ebiten.SetTPS(ebiten.SyncWithFPS)
}

// Scheduler 返回调度器
func (a *App) Scheduler() *game.Scheduler {
	return a.scheduler
}

// Update 执行一帧调度
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	a.input.collect()
	a.scheduler.Frame()

	if a.scheduler.State() == game.StateStopped {
		return ebiten.Termination
	}
	return nil
}

// Draw 绘制最近一次 Present 的快照
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	a.renderer.Draw(screen, a.points)

	if a.face == nil || a.overlay == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(a.width)*overlayOffset, float64(a.height)*overlayOffset)
	op.LineSpacing = a.face.Size * 1.2
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, a.overlay, a.face, op)
}

// Layout 逻辑尺寸跟随窗口尺寸，尺寸变化时排入 Resized 事件
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.input.pushResize(outsideWidth, outsideHeight)
	}
	return a.width, a.height
}

// Present 实现 game.Display：复制粒子和叠加层文字
func (a *App) Present(frame game.Frame) {
	a.points.Reset()
	frame.Scene.Draw(&a.points)
	a.overlay = strings.Join(frame.Overlay, "\n")
}

// ToggleFullscreen 实现 game.Display
func (a *App) ToggleFullscreen() {
	if utils.IsMobile() {
		return
	}
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.logger.Debug("exit fullscreen, window size reset in 3 frames")
		return
	}
	ebiten.SetFullscreen(true)
	a.logger.Debug("enter fullscreen")
}

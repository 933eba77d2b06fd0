// Package terminal 提供基于 tcell 的终端后端
//
// 每个字符单元对应画布上 cellWidth×cellHeight 的像素块，
// 粒子按位置落入单元格，颜色按透明度与黑色背景混合。
package terminal

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/game"
	"github.com/decker502/particlestorm/pkg/types"
)

// eventBufferSize 事件通道容量
const eventBufferSize = 256

// Backend 同时实现 game.InputSource 和 game.Display
type Backend struct {
	screen     tcell.Screen
	cellWidth  int
	cellHeight int
	glyph      rune

	cols, rows int

	events chan tcell.Event
	done   chan struct{}

	// 已翻译的事件和最近一次鼠标状态
	queue   game.QueueInput
	buttons tcell.ButtonMask

	logger *zap.Logger
}

// New 初始化屏幕并开启鼠标事件
func New(screen tcell.Screen, cfg config.TerminalConfig, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		return nil, fmt.Errorf("terminal cell size must be positive, got %dx%d", cfg.CellWidth, cfg.CellHeight)
	}
	glyph, _ := utf8.DecodeRuneInString(cfg.Glyph)
	if glyph == utf8.RuneError {
		return nil, fmt.Errorf("invalid terminal glyph %q", cfg.Glyph)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	b := &Backend{
		screen:     screen,
		cellWidth:  cfg.CellWidth,
		cellHeight: cfg.CellHeight,
		glyph:      glyph,
		events:     make(chan tcell.Event, eventBufferSize),
		done:       make(chan struct{}),
		logger:     logger.Named("terminal"),
	}
	b.cols, b.rows = screen.Size()
	return b, nil
}

// CanvasSize 返回终端对应的画布像素尺寸
func (b *Backend) CanvasSize() (width, height int) {
	return b.cols * b.cellWidth, b.rows * b.cellHeight
}

// Start 启动事件读取 goroutine，它只把事件转发到缓冲通道
func (b *Backend) Start() {
	go func() {
		for {
			ev := b.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case b.events <- ev:
			case <-b.done:
				return
			}
		}
	}()
}

// Close 恢复终端状态
func (b *Backend) Close() {
	select {
	case <-b.done:
		return
	default:
	}
	close(b.done)
	b.screen.Fini()
}

// PollEvents 实现 game.InputSource：取走通道中已有的事件，不阻塞
func (b *Backend) PollEvents() []game.InputEvent {
	for {
		select {
		case ev := <-b.events:
			b.handleEvent(ev)
		default:
			return b.queue.PollEvents()
		}
	}
}

// PointerPosition 实现 game.InputSource，返回鼠标所在单元格的中心
func (b *Backend) PointerPosition() components.Vec2 {
	return b.queue.PointerPosition()
}

// IsButtonPressed 实现 game.InputSource
func (b *Backend) IsButtonPressed(button game.MouseButton) bool {
	switch button {
	case game.ButtonPrimary:
		return b.buttons&tcell.Button1 != 0
	case game.ButtonSecondary:
		return b.buttons&tcell.Button2 != 0
	case game.ButtonTertiary:
		return b.buttons&tcell.Button3 != 0
	default:
		return false
	}
}

// handleEvent 把 tcell 事件翻译为输入事件或鼠标状态
func (b *Backend) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			b.queue.Push(game.Closed())
			return
		}
		if key := translateKey(ev.Key(), ev.Rune()); key != types.KeyUnknown {
			b.queue.Push(game.KeyDown(key))
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		b.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		cols, rows := ev.Size()
		b.resize(cols, rows)
	}
}

func (b *Backend) handleMouse(col, row int, buttons tcell.ButtonMask) {
	b.buttons = buttons
	b.queue.SetPointer(components.Vec2{
		X: float32(col*b.cellWidth) + float32(b.cellWidth)/2,
		Y: float32(row*b.cellHeight) + float32(b.cellHeight)/2,
	})
}

func (b *Backend) resize(cols, rows int) {
	if cols == b.cols && rows == b.rows {
		return
	}
	b.cols, b.rows = cols, rows
	b.screen.Sync()
	width, height := b.CanvasSize()
	b.queue.Push(game.Resized(width, height))
	b.logger.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
}

// translateKey 把 tcell 按键翻译为 types.Key
func translateKey(key tcell.Key, r rune) types.Key {
	switch key {
	case tcell.KeyEscape:
		return types.KeyEscape
	case tcell.KeyEnter:
		return types.KeyEnter
	case tcell.KeyTab:
		return types.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return types.KeyBackspace
	case tcell.KeyF11:
		return types.KeyF11
	case tcell.KeyRune:
		return types.KeyFromRune(r)
	default:
		return types.KeyUnknown
	}
}

// Present 实现 game.Display
func (b *Backend) Present(frame game.Frame) {
	b.screen.Clear()
	frame.Scene.Draw(b)

	white := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, line := range frame.Overlay {
		if i >= b.rows {
			break
		}
		col := 0
		for _, r := range line {
			if col >= b.cols {
				break
			}
			b.screen.SetContent(col, i, r, nil, white)
			col++
		}
	}
	b.screen.Show()
}

// DrawPoint 实现 systems.PointTarget：把点画到所在的单元格
func (b *Backend) DrawPoint(p components.Point) {
	col, row, ok := b.cellAt(p.Position)
	if !ok {
		return
	}
	b.screen.SetContent(col, row, b.glyph, nil, tcell.StyleDefault.
		Foreground(blend(p)).
		Background(tcell.ColorBlack))
}

// cellAt 返回画布坐标所在的单元格
func (b *Backend) cellAt(pos components.Vec2) (col, row int, ok bool) {
	if pos.X < 0 || pos.Y < 0 {
		return 0, 0, false
	}
	col = int(pos.X) / b.cellWidth
	row = int(pos.Y) / b.cellHeight
	if col >= b.cols || row >= b.rows {
		return 0, 0, false
	}
	return col, row, true
}

// blend 把颜色按透明度与黑色背景混合
func blend(p components.Point) tcell.Color {
	a := int32(p.Color.A)
	return tcell.NewRGBColor(
		int32(p.Color.R)*a/255,
		int32(p.Color.G)*a/255,
		int32(p.Color.B)*a/255,
	)
}

// ToggleFullscreen 实现 game.Display；终端没有全屏概念
func (b *Backend) ToggleFullscreen() {
	b.logger.Debug("fullscreen is not supported by the terminal backend")
}

// Run 在终端上运行演示，直到按下退出键或 ctx 取消
func Run(ctx context.Context, cfg *config.Config, screen tcell.Screen, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend, err := New(screen, cfg.Terminal, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	width, height := backend.CanvasSize()
	sim, err := game.NewSimulation(cfg, width, height, logger)
	if err != nil {
		return err
	}
	scheduler, err := sim.NewScheduler(game.NewStopwatch(nil), backend, backend, nil)
	if err != nil {
		return err
	}

	backend.Start()
	interval := time.Duration(cfg.Scheduler.FrameIntervalMs) * time.Millisecond
	if err := scheduler.Run(ctx, interval); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

package app

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/game"
	"github.com/decker502/particlestorm/pkg/utils"
)

// ebitenInput 把 ebiten 的输入状态转换为 game.InputSource
//
// ebiten 只能在 Update 中查询"刚按下"的按键，因此每次 Update 开始时
// 调用 collect 把事件排入队列，调度器的模拟步再从队列中取走。
type ebitenInput struct {
	queue game.QueueInput
}

// collect 收集本帧的离散事件
func (in *ebitenInput) collect() {
	if ebiten.IsWindowBeingClosed() {
		in.queue.Push(game.Closed())
	}
	for _, key := range utils.AppendJustPressedKeys(nil) {
		in.queue.Push(game.KeyDown(key))
	}
}

// pushResize 排入尺寸变化事件（由 Layout 调用）
func (in *ebitenInput) pushResize(width, height int) {
	in.queue.Push(game.Resized(width, height))
}

// PollEvents 实现 game.InputSource
func (in *ebitenInput) PollEvents() []game.InputEvent {
	return in.queue.PollEvents()
}

// PointerPosition 实现 game.InputSource，触摸优先
func (in *ebitenInput) PointerPosition() components.Vec2 {
	x, y := utils.GetPointerPosition()
	return components.Vec2{X: float32(x), Y: float32(y)}
}

// IsButtonPressed 实现 game.InputSource，触摸视为左键
func (in *ebitenInput) IsButtonPressed(button game.MouseButton) bool {
	switch button {
	case game.ButtonPrimary:
		return utils.IsPointerPressed()
	case game.ButtonSecondary:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	case game.ButtonTertiary:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	default:
		return false
	}
}

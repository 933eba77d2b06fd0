package game

import (
	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/types"
)

// MouseButton 指针按键
type MouseButton int

const (
	// ButtonPrimary 左键（或触摸）
	ButtonPrimary MouseButton = iota
	// ButtonSecondary 右键
	ButtonSecondary
	// ButtonTertiary 中键
	ButtonTertiary
)

// InputEventType 离散输入事件类型
type InputEventType int

const (
	// EventClosed 窗口关闭请求
	EventClosed InputEventType = iota
	// EventResized 画布尺寸变化，Width/Height 为新尺寸
	EventResized
	// EventKeyDown 按键按下，Key 为按键
	EventKeyDown
)

// InputEvent 是输入源排队的离散事件
type InputEvent struct {
	Type   InputEventType
	Width  int
	Height int
	Key    types.Key
}

// KeyDown 构造按键事件
func KeyDown(key types.Key) InputEvent {
	return InputEvent{Type: EventKeyDown, Key: key}
}

// Resized 构造尺寸变化事件
func Resized(width, height int) InputEvent {
	return InputEvent{Type: EventResized, Width: width, Height: height}
}

// Closed 构造关闭事件
func Closed() InputEvent {
	return InputEvent{Type: EventClosed}
}

// InputSource 是调度器读取输入的来源
//
// PollEvents 取走自上次调用以来排队的全部事件；
// 指针位置和按键状态是调用时刻的实时状态。
type InputSource interface {
	PollEvents() []InputEvent
	PointerPosition() components.Vec2
	IsButtonPressed(button MouseButton) bool
}

// QueueInput 是内存中的 InputSource，事件和指针状态由调用方写入
type QueueInput struct {
	events  []InputEvent
	pointer components.Vec2
	buttons [ButtonTertiary + 1]bool
}

// Push 追加事件
func (q *QueueInput) Push(events ...InputEvent) {
	q.events = append(q.events, events...)
}

// SetPointer 设置指针位置
func (q *QueueInput) SetPointer(pos components.Vec2) {
	q.pointer = pos
}

// SetButton 设置按键状态
func (q *QueueInput) SetButton(button MouseButton, pressed bool) {
	if button < ButtonPrimary || button > ButtonTertiary {
		return
	}
	q.buttons[button] = pressed
}

// PollEvents 实现 InputSource
func (q *QueueInput) PollEvents() []InputEvent {
	if len(q.events) == 0 {
		return nil
	}
	events := q.events
	q.events = nil
	return events
}

// PointerPosition 实现 InputSource
func (q *QueueInput) PointerPosition() components.Vec2 {
	return q.pointer
}

// IsButtonPressed 实现 InputSource
func (q *QueueInput) IsButtonPressed(button MouseButton) bool {
	if button < ButtonPrimary || button > ButtonTertiary {
		return false
	}
	return q.buttons[button]
}

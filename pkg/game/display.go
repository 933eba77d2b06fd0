package game

import "github.com/decker502/particlestorm/pkg/systems"

// Frame 是一次渲染需要的全部内容
type Frame struct {
	// Scene 更新完成后的粒子场景，只在 Present 调用期间有效
	Scene systems.Drawable
	// Overlay 叠加层文字，每个元素一行；为空表示不显示
	Overlay []string
}

// Display 是渲染输出
//
// Present 每帧调用一次。实现必须在返回前复制所需的数据，
// 之后调度器会继续修改粒子。
type Display interface {
	Present(frame Frame)
	ToggleFullscreen()
}

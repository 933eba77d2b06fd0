package systems

import "github.com/decker502/particlestorm/pkg/components"

// PointTarget 是能够绘制单个彩色点的渲染目标
type PointTarget interface {
	DrawPoint(p components.Point)
}

// Drawable 是能把自身画到 PointTarget 上的对象
type Drawable interface {
	Draw(target PointTarget)
}

// PointBuffer 是收集点的 PointTarget，用于获取渲染快照
type PointBuffer []components.Point

// DrawPoint 追加一个点
func (b *PointBuffer) DrawPoint(p components.Point) {
	*b = append(*b, p)
}

// Reset 清空缓冲区但保留容量
func (b *PointBuffer) Reset() {
	*b = (*b)[:0]
}

// Draw 实现 Drawable：把缓冲区中的点依次画到 target 上
func (b PointBuffer) Draw(target PointTarget) {
	for _, p := range b {
		target.DrawPoint(p)
	}
}

package components

import "image/color"

// Vec2 是二维浮点向量（像素坐标 / 像素每秒）
type Vec2 struct {
	X float32
	Y float32
}

// Add 返回两个向量之和
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 返回 v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 返回按标量缩放后的向量
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Point 是渲染协作者需要的全部信息：一个位置加一个颜色
type Point struct {
	Position Vec2
	Color    color.RGBA
}

// ParticleComponent 表示粒子系统中的单个粒子
//
// 粒子按值存储在 ParticleSystem 的切片中，外部不持有粒子引用。
// 颜色的 A 通道即粒子透明度，溶解时逐步递减。
type ParticleComponent struct {
	Position Vec2       // 当前位置（画布坐标）
	Velocity Vec2       // 速度方向，实际位移还要乘以系统速度倍率
	Color    color.RGBA // 顶点颜色（A = 透明度）
}

// AddVelocity 将 delta 累加到速度上
func (p *ParticleComponent) AddVelocity(delta Vec2) {
	p.Velocity = p.Velocity.Add(delta)
}

// Dissolve 将透明度减少 rate，结果在 0 处饱和（不会回绕）
func (p *ParticleComponent) Dissolve(rate uint8) {
	if p.Color.A <= rate {
		p.Color.A = 0
		return
	}
	p.Color.A -= rate
}

// Alpha 返回当前透明度
func (p *ParticleComponent) Alpha() uint8 {
	return p.Color.A
}

// Point 返回粒子的可绘制视图
func (p *ParticleComponent) Point() Point {
	return Point{Position: p.Position, Color: p.Color}
}

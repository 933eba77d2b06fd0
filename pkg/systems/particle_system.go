package systems

import (
	"image/color"
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/decker502/particlestorm/pkg/components"
)

const (
	// AlphaCutoff 透明度低于此值的粒子在 Update 中被移除
	AlphaCutoff = 10

	// DefaultParticleSpeed 默认速度倍率（像素/秒，最大）
	DefaultParticleSpeed = 100.0

	// DefaultDissolutionRate 默认每步透明度递减量
	DefaultDissolutionRate = 4
)

// ParticleSystem 拥有全部粒子并负责发射、积分和剔除。
//
// 粒子按值存放在连续切片中。Update 在一次遍历内完成
// 重力积分、位移、溶解和剔除，每个粒子恰好访问一次。
//
// ParticleSystem 不是并发安全的：调度器在同一时间线上
// 先更新再渲染，渲染只读取更新完成后的状态。
type ParticleSystem struct {
	particles []components.ParticleComponent
	emitter   components.EmitterComponent

	gravity         components.Vec2
	speed           float32
	dissolve        bool
	dissolutionRate uint8

	canvasWidth  uint32
	canvasHeight uint32

	rng *rand.Rand
}

// NewRand 创建粒子系统使用的伪随机源。
// seed 为 0 时使用当前时间作为种子。
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>32|now<<32))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewParticleSystem 创建粒子系统，发射点位于画布中心。
// rng 为 nil 时使用时间种子随机源。
func NewParticleSystem(canvasWidth, canvasHeight uint32, rng *rand.Rand) *ParticleSystem {
	if rng == nil {
		rng = NewRand(0)
	}
	return &ParticleSystem{
		emitter: components.EmitterComponent{
			Origin: components.Vec2{X: float32(canvasWidth) / 2, Y: float32(canvasHeight) / 2},
			Shape:  components.ShapeCircle,
		},
		speed:           DefaultParticleSpeed,
		dissolutionRate: DefaultDissolutionRate,
		canvasWidth:     canvasWidth,
		canvasHeight:    canvasHeight,
		rng:             rng,
	}
}

// Emit 在发射点追加 count 个新粒子。count <= 0 时不做任何事。
func (ps *ParticleSystem) Emit(count int) {
	if count <= 0 {
		return
	}
	ps.particles = slices.Grow(ps.particles, count)
	for i := 0; i < count; i++ {
		ps.particles = append(ps.particles, components.ParticleComponent{
			Position: ps.emitter.Origin,
			Velocity: ps.sampleVelocity(),
			Color: color.RGBA{
				R: uint8(ps.rng.IntN(256)),
				G: uint8(ps.rng.IntN(256)),
				B: uint8(ps.rng.IntN(256)),
				A: 255,
			},
		})
	}
}

// sampleVelocity 按当前分布采样初速度。
//
// Circle 分布先采样角度，再把 cos/sin 当作各轴的均匀分布上界，
// 得到的是偏向对角方向的散布而不是单位圆上的向量。
func (ps *ParticleSystem) sampleVelocity() components.Vec2 {
	switch ps.emitter.Shape {
	case components.ShapeSquare:
		return components.Vec2{
			X: float32(ps.rng.Float64()*2 - 1),
			Y: float32(ps.rng.Float64()*2 - 1),
		}
	default:
		angle := ps.rng.Float64() * 2 * math.Pi
		return components.Vec2{
			X: float32(math.Cos(angle) * ps.rng.Float64()),
			Y: float32(math.Sin(angle) * ps.rng.Float64()),
		}
	}
}

// Update 将所有粒子推进 dt 秒，并移除出界或透明度低于 AlphaCutoff 的粒子。
func (ps *ParticleSystem) Update(dt float32) {
	gravityStep := ps.gravity.Scale(dt)
	width := float32(ps.canvasWidth)
	height := float32(ps.canvasHeight)

	// 原地压缩：存活的粒子依次写回切片前部
	live := ps.particles[:0]
	for i := range ps.particles {
		p := ps.particles[i]

		p.AddVelocity(gravityStep)
		p.Position.X += p.Velocity.X * dt * ps.speed
		p.Position.Y += p.Velocity.Y * dt * ps.speed

		if ps.dissolve {
			p.Dissolve(ps.dissolutionRate)
		}

		if p.Position.X > width || p.Position.X < 0 ||
			p.Position.Y > height || p.Position.Y < 0 ||
			p.Alpha() < AlphaCutoff {
			continue
		}
		live = append(live, p)
	}
	ps.particles = live
}

// Points 返回当前粒子的只读惰性序列，可以重复遍历
func (ps *ParticleSystem) Points() iter.Seq[components.Point] {
	return func(yield func(components.Point) bool) {
		for i := range ps.particles {
			if !yield(ps.particles[i].Point()) {
				return
			}
		}
	}
}

// Draw 把每个粒子作为一个点画到 target 上
func (ps *ParticleSystem) Draw(target PointTarget) {
	for pt := range ps.Points() {
		target.DrawPoint(pt)
	}
}

// ParticleCount 返回存活粒子数
func (ps *ParticleSystem) ParticleCount() int {
	return len(ps.particles)
}

// SetGravity 设置重力（像素/秒²，乘以速度倍率后生效）
func (ps *ParticleSystem) SetGravity(gravity components.Vec2) {
	ps.gravity = gravity
}

// Gravity 返回当前重力
func (ps *ParticleSystem) Gravity() components.Vec2 {
	return ps.gravity
}

// SetParticleSpeed 设置速度倍率。负值或 NaN 被忽略，保留原值。
func (ps *ParticleSystem) SetParticleSpeed(speed float32) {
	if speed < 0 || math.IsNaN(float64(speed)) {
		return
	}
	ps.speed = speed
}

// ParticleSpeed 返回当前速度倍率
func (ps *ParticleSystem) ParticleSpeed() float32 {
	return ps.speed
}

// SetDissolutionRate 设置每步透明度递减量，限制在 [0, 255]
func (ps *ParticleSystem) SetDissolutionRate(rate int) {
	switch {
	case rate < 0:
		rate = 0
	case rate > math.MaxUint8:
		rate = math.MaxUint8
	}
	ps.dissolutionRate = uint8(rate)
}

// DissolutionRate 返回每步透明度递减量
func (ps *ParticleSystem) DissolutionRate() int {
	return int(ps.dissolutionRate)
}

// ToggleDissolve 切换溶解开关
func (ps *ParticleSystem) ToggleDissolve() {
	ps.dissolve = !ps.dissolve
}

// SetDissolve 直接设置溶解开关（用于配置初始化）
func (ps *ParticleSystem) SetDissolve(enabled bool) {
	ps.dissolve = enabled
}

// Dissolving 返回溶解是否开启
func (ps *ParticleSystem) Dissolving() bool {
	return ps.dissolve
}

// ToggleShape 循环切换发射分布
func (ps *ParticleSystem) ToggleShape() {
	ps.emitter.Shape = ps.emitter.Shape.Next()
}

// SetShape 直接设置发射分布
func (ps *ParticleSystem) SetShape(shape components.EmissionShape) {
	ps.emitter.Shape = shape
}

// Shape 返回当前发射分布
func (ps *ParticleSystem) Shape() components.EmissionShape {
	return ps.emitter.Shape
}

// SetEmitterPosition 移动发射点
func (ps *ParticleSystem) SetEmitterPosition(pos components.Vec2) {
	ps.emitter.Origin = pos
}

// EmitterPosition 返回发射点
func (ps *ParticleSystem) EmitterPosition() components.Vec2 {
	return ps.emitter.Origin
}

// SetCanvasBounds 更新剔除边界（窗口尺寸变化时调用）
func (ps *ParticleSystem) SetCanvasBounds(width, height uint32) {
	ps.canvasWidth = width
	ps.canvasHeight = height
}

// CanvasBounds 返回剔除边界
func (ps *ParticleSystem) CanvasBounds() (width, height uint32) {
	return ps.canvasWidth, ps.canvasHeight
}

package systems

import (
	"image/color"
	"math"
	"testing"

	"github.com/decker502/particlestorm/pkg/components"
)

// newTestSystem 创建使用固定种子的粒子系统
func newTestSystem(w, h uint32) *ParticleSystem {
	return NewParticleSystem(w, h, NewRand(42))
}

// addParticle 直接放入一个粒子（绕过随机发射）
func addParticle(ps *ParticleSystem, pos, vel components.Vec2, alpha uint8) {
	ps.particles = append(ps.particles, components.ParticleComponent{
		Position: pos,
		Velocity: vel,
		Color:    color.RGBA{R: 200, G: 100, B: 50, A: alpha},
	})
}

func TestNewParticleSystemDefaults(t *testing.T) {
	ps := newTestSystem(1400, 1000)

	if ps.ParticleSpeed() != 100 {
		t.Errorf("ParticleSpeed: got %v, want 100", ps.ParticleSpeed())
	}
	if ps.DissolutionRate() != 4 {
		t.Errorf("DissolutionRate: got %d, want 4", ps.DissolutionRate())
	}
	if ps.Dissolving() {
		t.Error("Dissolving: got true, want false")
	}
	if ps.Shape() != components.ShapeCircle {
		t.Errorf("Shape: got %v, want circle", ps.Shape())
	}
	if got := ps.EmitterPosition(); got != (components.Vec2{X: 700, Y: 500}) {
		t.Errorf("EmitterPosition: got %+v, want {700 500}", got)
	}
	if ps.Gravity() != (components.Vec2{}) {
		t.Errorf("Gravity: got %+v, want zero", ps.Gravity())
	}
	if ps.ParticleCount() != 0 {
		t.Errorf("ParticleCount: got %d, want 0", ps.ParticleCount())
	}
}

// TestEmitAddsExactlyN 测试 Emit(n) 恰好增加 n 个粒子，且不移除已有粒子
func TestEmitAddsExactlyN(t *testing.T) {
	ps := newTestSystem(800, 600)

	counts := []int{0, 1, 50, 1000}
	total := 0
	for _, n := range counts {
		ps.Emit(n)
		total += n
		if ps.ParticleCount() != total {
			t.Fatalf("after Emit(%d): got %d particles, want %d", n, ps.ParticleCount(), total)
		}
	}

	ps.Emit(-5)
	if ps.ParticleCount() != total {
		t.Errorf("Emit(-5) changed count: got %d, want %d", ps.ParticleCount(), total)
	}
}

// TestEmitInitialState 测试新粒子位于发射点、不透明、速度在分布范围内
func TestEmitInitialState(t *testing.T) {
	tests := []struct {
		name  string
		shape components.EmissionShape
	}{
		{name: "circle", shape: components.ShapeCircle},
		{name: "square", shape: components.ShapeSquare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := newTestSystem(800, 600)
			ps.SetShape(tt.shape)
			origin := components.Vec2{X: 123, Y: 456}
			ps.SetEmitterPosition(origin)
			ps.Emit(2000)

			for i, p := range ps.particles {
				if p.Position != origin {
					t.Fatalf("particle %d: position %+v, want %+v", i, p.Position, origin)
				}
				if p.Color.A != 255 {
					t.Fatalf("particle %d: alpha %d, want 255", i, p.Color.A)
				}
				if p.Velocity.X < -1 || p.Velocity.X > 1 || p.Velocity.Y < -1 || p.Velocity.Y > 1 {
					t.Fatalf("particle %d: velocity %+v outside [-1,1]", i, p.Velocity)
				}
			}
		})
	}
}

// TestCircleEmissionIsBiased 测试圆形分布的两阶段采样：
// 速度各分量的模不超过同一角度下 cos/sin 的模，因此落在单位圆内
func TestCircleEmissionIsBiased(t *testing.T) {
	ps := newTestSystem(800, 600)
	ps.SetShape(components.ShapeCircle)
	ps.Emit(5000)

	var sumLen float64
	for i, p := range ps.particles {
		l := math.Hypot(float64(p.Velocity.X), float64(p.Velocity.Y))
		if l > 1+1e-6 {
			t.Fatalf("particle %d: |v| = %v exceeds 1", i, l)
		}
		sumLen += l
	}

	// 两个独立 [0,1) 缩放后平均长度明显小于 1（单位向量时恰好为 1）
	mean := sumLen / float64(len(ps.particles))
	if mean > 0.8 || mean < 0.2 {
		t.Errorf("mean |v| = %v, want noticeably below 1", mean)
	}
}

// TestSquareEmissionCoversAllQuadrants 测试方形分布覆盖四个象限
func TestSquareEmissionCoversAllQuadrants(t *testing.T) {
	ps := newTestSystem(800, 600)
	ps.SetShape(components.ShapeSquare)
	ps.Emit(1000)

	var quadrants [4]int
	for _, p := range ps.particles {
		q := 0
		if p.Velocity.X < 0 {
			q |= 1
		}
		if p.Velocity.Y < 0 {
			q |= 2
		}
		quadrants[q]++
	}
	for q, n := range quadrants {
		if n == 0 {
			t.Errorf("quadrant %d received no particles", q)
		}
	}
}

// TestUpdateIntegratesGravity 测试速度精确增加 gravity*dt
func TestUpdateIntegratesGravity(t *testing.T) {
	ps := newTestSystem(1000, 1000)
	ps.SetGravity(components.Vec2{X: 3, Y: -7})
	ps.SetParticleSpeed(1)
	addParticle(ps, components.Vec2{X: 500, Y: 500}, components.Vec2{X: 0.25, Y: -0.5}, 255)

	for _, dt := range []float32{0, 0.02, 0.5, 1} {
		before := ps.particles[0].Velocity
		ps.Update(dt)
		if ps.ParticleCount() != 1 {
			t.Fatalf("dt=%v: particle was removed", dt)
		}
		want := components.Vec2{X: before.X + 3*dt, Y: before.Y + -7*dt}
		if got := ps.particles[0].Velocity; got != want {
			t.Errorf("dt=%v: velocity %+v, want %+v", dt, got, want)
		}
	}
}

// TestUpdateMovesByVelocityTimesSpeed 测试位移 = velocity * dt * speed
func TestUpdateMovesByVelocityTimesSpeed(t *testing.T) {
	ps := newTestSystem(1000, 1000)
	ps.SetParticleSpeed(50)
	addParticle(ps, components.Vec2{X: 100, Y: 100}, components.Vec2{X: 1, Y: 0.5}, 255)

	ps.Update(0.5)

	if got := ps.particles[0].Position; got != (components.Vec2{X: 125, Y: 112.5}) {
		t.Errorf("Position: got %+v, want {125 112.5}", got)
	}
}

// TestUpdateRemovesOutOfBounds 场景：100x100 画布，速度倍率 100，dt=1 → x=150，被移除
func TestUpdateRemovesOutOfBounds(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.SetParticleSpeed(100)
	addParticle(ps, components.Vec2{X: 50, Y: 50}, components.Vec2{X: 1, Y: 0}, 255)

	ps.Update(1)

	if ps.ParticleCount() != 0 {
		t.Errorf("ParticleCount: got %d, want 0", ps.ParticleCount())
	}
}

// TestUpdateBoundaryInclusive 测试恰好在边界上的粒子保留
func TestUpdateBoundaryInclusive(t *testing.T) {
	ps := newTestSystem(100, 100)
	addParticle(ps, components.Vec2{X: 0, Y: 0}, components.Vec2{}, 255)
	addParticle(ps, components.Vec2{X: 100, Y: 100}, components.Vec2{}, 255)
	addParticle(ps, components.Vec2{X: 100, Y: 0}, components.Vec2{}, AlphaCutoff)

	ps.Update(0.02)

	if ps.ParticleCount() != 3 {
		t.Errorf("ParticleCount: got %d, want 3", ps.ParticleCount())
	}
}

// TestUpdateDissolution 场景：rate=4，alpha=255，第 61 次更新后仍存活，第 62 次被移除
func TestUpdateDissolution(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.SetDissolve(true)
	ps.SetDissolutionRate(4)
	addParticle(ps, components.Vec2{X: 50, Y: 50}, components.Vec2{}, 255)

	prev := uint8(255)
	for call := 1; call <= 61; call++ {
		ps.Update(0.02)
		if ps.ParticleCount() != 1 {
			t.Fatalf("call %d: particle removed early", call)
		}
		alpha := ps.particles[0].Alpha()
		if alpha > prev {
			t.Fatalf("call %d: alpha increased from %d to %d", call, prev, alpha)
		}
		prev = alpha
	}
	if prev != 11 {
		t.Errorf("alpha after 61 calls: got %d, want 11", prev)
	}

	ps.Update(0.02)
	if ps.ParticleCount() != 0 {
		t.Errorf("call 62: particle should be removed, count=%d", ps.ParticleCount())
	}
}

// TestUpdateDissolveDisabledKeepsAlpha 测试溶解关闭后透明度不再变化
func TestUpdateDissolveDisabledKeepsAlpha(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.SetDissolve(true)
	addParticle(ps, components.Vec2{X: 50, Y: 50}, components.Vec2{}, 255)

	for i := 0; i < 10; i++ {
		ps.Update(0.02)
	}
	ps.ToggleDissolve()
	frozen := ps.particles[0].Alpha()

	for i := 0; i < 10; i++ {
		ps.Update(0.02)
	}
	if got := ps.particles[0].Alpha(); got != frozen {
		t.Errorf("alpha changed while dissolve disabled: got %d, want %d", got, frozen)
	}
}

// TestUpdateVisitsEachParticleOnce 测试移除不会跳过或重复处理相邻粒子
func TestUpdateVisitsEachParticleOnce(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.SetParticleSpeed(10)
	// 交替放置：会出界的粒子和留在界内的粒子，包括连续多个出界的情况
	addParticle(ps, components.Vec2{X: 99, Y: 50}, components.Vec2{X: 1, Y: 0}, 255) // out
	addParticle(ps, components.Vec2{X: 10, Y: 10}, components.Vec2{X: 1, Y: 1}, 255)  // stays
	addParticle(ps, components.Vec2{X: 1, Y: 50}, components.Vec2{X: -1, Y: 0}, 255)  // out
	addParticle(ps, components.Vec2{X: 50, Y: 1}, components.Vec2{X: 0, Y: -1}, 255)  // out
	addParticle(ps, components.Vec2{X: 20, Y: 20}, components.Vec2{X: 1, Y: 1}, 255)  // stays
	addParticle(ps, components.Vec2{X: 50, Y: 99}, components.Vec2{X: 0, Y: 1}, 255)  // out

	ps.Update(1)

	if ps.ParticleCount() != 2 {
		t.Fatalf("ParticleCount: got %d, want 2", ps.ParticleCount())
	}
	// 每个存活粒子只被推进一次
	want := []components.Vec2{{X: 20, Y: 20}, {X: 30, Y: 30}}
	for i, w := range want {
		if got := ps.particles[i].Position; got != w {
			t.Errorf("survivor %d: position %+v, want %+v", i, got, w)
		}
	}
}

// TestUpdateSurvivorsSatisfyInvariants 随机粒子群经过多次更新后，所有存活粒子都在界内且 alpha >= 10
func TestUpdateSurvivorsSatisfyInvariants(t *testing.T) {
	ps := newTestSystem(300, 200)
	ps.SetDissolve(true)
	ps.SetDissolutionRate(7)
	ps.SetGravity(components.Vec2{X: 5, Y: 20})

	for step := 0; step < 60; step++ {
		if step%5 == 0 {
			ps.ToggleShape()
			ps.Emit(100)
		}
		ps.Update(0.02)

		w, h := ps.CanvasBounds()
		for pt := range ps.Points() {
			if pt.Position.X < 0 || pt.Position.X > float32(w) || pt.Position.Y < 0 || pt.Position.Y > float32(h) {
				t.Fatalf("step %d: survivor out of bounds at %+v", step, pt.Position)
			}
			if pt.Color.A < AlphaCutoff {
				t.Fatalf("step %d: survivor alpha %d below cutoff", step, pt.Color.A)
			}
		}
	}
}

func TestSetParticleSpeedRejectsNegative(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.SetParticleSpeed(42)
	ps.SetParticleSpeed(-1)
	if ps.ParticleSpeed() != 42 {
		t.Errorf("ParticleSpeed: got %v, want 42", ps.ParticleSpeed())
	}
	ps.SetParticleSpeed(float32(math.NaN()))
	if ps.ParticleSpeed() != 42 {
		t.Errorf("ParticleSpeed after NaN: got %v, want 42", ps.ParticleSpeed())
	}
	ps.SetParticleSpeed(0)
	if ps.ParticleSpeed() != 0 {
		t.Errorf("ParticleSpeed: got %v, want 0", ps.ParticleSpeed())
	}
}

func TestSetDissolutionRateClamps(t *testing.T) {
	ps := newTestSystem(100, 100)

	tests := []struct {
		in, want int
	}{
		{in: -3, want: 0},
		{in: 0, want: 0},
		{in: 17, want: 17},
		{in: 255, want: 255},
		{in: 300, want: 255},
	}
	for _, tt := range tests {
		ps.SetDissolutionRate(tt.in)
		if got := ps.DissolutionRate(); got != tt.want {
			t.Errorf("SetDissolutionRate(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToggleShapeTwiceRestores(t *testing.T) {
	ps := newTestSystem(100, 100)
	orig := ps.Shape()
	ps.ToggleShape()
	if ps.Shape() == orig {
		t.Fatal("ToggleShape did not change the shape")
	}
	ps.ToggleShape()
	if ps.Shape() != orig {
		t.Errorf("Shape after two toggles: got %v, want %v", ps.Shape(), orig)
	}
}

// TestPointsIsRestartable 测试序列可以重复遍历并且可以提前终止
func TestPointsIsRestartable(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.Emit(10)

	seq := ps.Points()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 10 || second != 10 {
		t.Errorf("iterations: got %d and %d, want 10 and 10", first, second)
	}

	taken := 0
	for range seq {
		taken++
		if taken == 3 {
			break
		}
	}
	if taken != 3 {
		t.Errorf("early break: got %d, want 3", taken)
	}
}

// TestDrawUsesPointTarget 测试 Draw 把每个粒子交给渲染目标
func TestDrawUsesPointTarget(t *testing.T) {
	ps := newTestSystem(100, 100)
	ps.Emit(25)

	var buf PointBuffer
	var d Drawable = ps
	d.Draw(&buf)

	if len(buf) != 25 {
		t.Fatalf("points drawn: got %d, want 25", len(buf))
	}
	i := 0
	for pt := range ps.Points() {
		if buf[i] != pt {
			t.Errorf("point %d: got %+v, want %+v", i, buf[i], pt)
		}
		i++
	}

	buf.Reset()
	if len(buf) != 0 {
		t.Errorf("Reset: got len %d, want 0", len(buf))
	}
}

func TestSetCanvasBounds(t *testing.T) {
	ps := newTestSystem(100, 100)
	addParticle(ps, components.Vec2{X: 150, Y: 50}, components.Vec2{}, 255)

	ps.SetCanvasBounds(200, 100)
	ps.Update(0.02)
	if ps.ParticleCount() != 1 {
		t.Fatalf("particle inside enlarged canvas removed")
	}

	ps.SetCanvasBounds(120, 100)
	ps.Update(0.02)
	if ps.ParticleCount() != 0 {
		t.Errorf("particle outside shrunk canvas kept")
	}
	if w, h := ps.CanvasBounds(); w != 120 || h != 100 {
		t.Errorf("CanvasBounds: got %dx%d, want 120x100", w, h)
	}
}

// TestSeededEmissionIsDeterministic 测试相同种子产生相同粒子
func TestSeededEmissionIsDeterministic(t *testing.T) {
	a := NewParticleSystem(100, 100, NewRand(7))
	b := NewParticleSystem(100, 100, NewRand(7))
	a.Emit(20)
	b.Emit(20)

	for i := range a.particles {
		if a.particles[i] != b.particles[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a.particles[i], b.particles[i])
		}
	}
}

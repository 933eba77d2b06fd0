package game

import (
	"testing"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/systems"
	"github.com/decker502/particlestorm/pkg/types"
)

func defaultTestBindings() map[types.Key]types.Action {
	return map[types.Key]types.Action{
		types.KeySpace:  types.ActionToggleDissolve,
		types.KeyA:      types.ActionDissolveSlower,
		types.KeyS:      types.ActionDissolveFaster,
		types.KeyQ:      types.ActionSpeedDown,
		types.KeyW:      types.ActionSpeedUp,
		types.KeyE:      types.ActionToggleShape,
		types.KeyF:      types.ActionToggleFullscreen,
		types.KeyEscape: types.ActionQuit,
	}
}

func newTestControls(t *testing.T) (*systems.ParticleSystem, *Controls) {
	t.Helper()
	ps := systems.NewParticleSystem(200, 100, systems.NewRand(7))
	c := NewControls(ps, ControlsOptions{
		Bindings:          defaultTestBindings(),
		EmitBurst:         50,
		GravityDragFactor: 0.75,
		SpeedStep:         0.1,
	}, nil)
	return ps, c
}

func TestControlsKeyActions(t *testing.T) {
	ps, c := newTestControls(t)

	c.HandleEvent(KeyDown(types.KeySpace))
	if !ps.Dissolving() {
		t.Error("Space should enable dissolve")
	}

	c.HandleEvent(KeyDown(types.KeyS))
	if ps.DissolutionRate() != 5 {
		t.Errorf("S: rate got %d, want 5", ps.DissolutionRate())
	}

	for i := 0; i < 10; i++ {
		c.HandleEvent(KeyDown(types.KeyA))
	}
	if ps.DissolutionRate() != 0 {
		t.Errorf("A floors at 0: rate got %d", ps.DissolutionRate())
	}

	c.HandleEvent(KeyDown(types.KeyW))
	if got := ps.ParticleSpeed(); got != 110 {
		t.Errorf("W: speed got %v, want 110", got)
	}
	c.HandleEvent(KeyDown(types.KeyQ))
	if got := ps.ParticleSpeed(); got < 98.9 || got > 99.1 {
		t.Errorf("Q: speed got %v, want ~99", got)
	}

	shape := ps.Shape()
	c.HandleEvent(KeyDown(types.KeyE))
	if ps.Shape() == shape {
		t.Error("E should change the shape")
	}

	// 未绑定的按键不做任何事
	if got := c.HandleEvent(KeyDown(types.KeyZ)); got != types.ActionNone {
		t.Errorf("unbound key returned %v", got)
	}
}

func TestControlsSpeedDownStopsAtZero(t *testing.T) {
	ps, c := newTestControls(t)
	ps.SetParticleSpeed(0)

	c.HandleEvent(KeyDown(types.KeyQ))
	if ps.ParticleSpeed() != 0 {
		t.Errorf("Q at zero speed: got %v, want 0", ps.ParticleSpeed())
	}
	// 0 的 10% 仍然是 0
	c.HandleEvent(KeyDown(types.KeyW))
	if ps.ParticleSpeed() != 0 {
		t.Errorf("W at zero speed: got %v, want 0", ps.ParticleSpeed())
	}
}

func TestControlsDissolveFasterSaturates(t *testing.T) {
	ps, c := newTestControls(t)
	ps.SetDissolutionRate(255)

	c.HandleEvent(KeyDown(types.KeyS))
	if ps.DissolutionRate() != 255 {
		t.Errorf("rate should saturate at 255, got %d", ps.DissolutionRate())
	}
}

func TestControlsSchedulerActions(t *testing.T) {
	_, c := newTestControls(t)

	tests := []struct {
		name  string
		event InputEvent
		want  types.Action
	}{
		{name: "close", event: Closed(), want: types.ActionQuit},
		{name: "escape", event: KeyDown(types.KeyEscape), want: types.ActionQuit},
		{name: "fullscreen", event: KeyDown(types.KeyF), want: types.ActionToggleFullscreen},
		{name: "resize", event: Resized(640, 480), want: types.ActionNone},
		{name: "shape", event: KeyDown(types.KeyE), want: types.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HandleEvent(tt.event); got != tt.want {
				t.Errorf("HandleEvent: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControlsResize(t *testing.T) {
	ps, c := newTestControls(t)

	c.HandleEvent(Resized(640, 480))
	if w, h := ps.CanvasBounds(); w != 640 || h != 480 {
		t.Errorf("bounds: got %dx%d, want 640x480", w, h)
	}

	// 无效尺寸被忽略
	c.HandleEvent(Resized(0, 480))
	if w, h := ps.CanvasBounds(); w != 640 || h != 480 {
		t.Errorf("bounds after zero resize: got %dx%d, want 640x480", w, h)
	}
}

func TestControlsPointer(t *testing.T) {
	ps, c := newTestControls(t)
	input := &QueueInput{}

	// 指针移动只改变发射点
	input.SetPointer(components.Vec2{X: 30, Y: 40})
	c.ApplyPointer(input)
	if got := ps.EmitterPosition(); got != (components.Vec2{X: 30, Y: 40}) {
		t.Errorf("emitter: got %v, want (30,40)", got)
	}
	if ps.ParticleCount() != 0 {
		t.Errorf("no button: got %d particles, want 0", ps.ParticleCount())
	}

	// 左键按住：每次发射 50 个
	input.SetButton(ButtonPrimary, true)
	c.ApplyPointer(input)
	c.ApplyPointer(input)
	if ps.ParticleCount() != 100 {
		t.Errorf("primary held twice: got %d particles, want 100", ps.ParticleCount())
	}
	input.SetButton(ButtonPrimary, false)

	// 右键拖动：重力 = (上次 - 当前) * 0.75
	input.SetButton(ButtonSecondary, true)
	input.SetPointer(components.Vec2{X: 10, Y: 80})
	c.ApplyPointer(input)
	if got, want := ps.Gravity(), (components.Vec2{X: 15, Y: -30}); got != want {
		t.Errorf("gravity: got %v, want %v", got, want)
	}
	input.SetButton(ButtonSecondary, false)

	// 中键：清除重力
	input.SetButton(ButtonTertiary, true)
	c.ApplyPointer(input)
	if got := ps.Gravity(); got != (components.Vec2{}) {
		t.Errorf("gravity after middle click: got %v, want zero", got)
	}
}

func TestControlsInitialLastPointer(t *testing.T) {
	ps, c := newTestControls(t)
	input := &QueueInput{}
	input.SetButton(ButtonSecondary, true)
	input.SetPointer(components.Vec2{X: 100, Y: 50})

	// 初始 lastPointer 为画布尺寸 (200, 100)
	c.ApplyPointer(input)
	if got, want := ps.Gravity(), (components.Vec2{X: 75, Y: 37.5}); got != want {
		t.Errorf("gravity: got %v, want %v", got, want)
	}
}

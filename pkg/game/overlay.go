package game

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/types"
)

// Stats 叠加层显示的运行状态
type Stats struct {
	FPS             float64
	Particles       int
	Speed           float32
	DissolutionRate int
	Dissolving      bool
	Shape           components.EmissionShape
}

// Overlay 生成诊断文字
type Overlay struct {
	printer *message.Printer
	help    []string
}

// NewOverlay 根据按键绑定生成帮助文字。showHelp 为 false 时只显示状态行。
func NewOverlay(bindings map[types.Key]types.Action, showHelp bool) *Overlay {
	o := &Overlay{printer: message.NewPrinter(language.English)}
	if showHelp {
		o.help = helpLines(bindings)
	}
	return o
}

// Help 返回帮助行
func (o *Overlay) Help() []string {
	return o.help
}

// Lines 返回帮助行加状态行
func (o *Overlay) Lines(stats Stats) []string {
	lines := make([]string, 0, len(o.help)+4)
	lines = append(lines, o.help...)

	dissolve := "off"
	if stats.Dissolving {
		dissolve = "on"
	}
	lines = append(lines,
		o.printer.Sprintf("Frames per Second (FPS): %.0f", stats.FPS),
		o.printer.Sprintf("Particles: %d", stats.Particles),
		o.printer.Sprintf("Speed: %.1f  Decay Rate: %d  Dissolve: %s", stats.Speed, stats.DissolutionRate, dissolve),
		o.printer.Sprintf("Distribution: %s", stats.Shape),
	)
	return lines
}

// helpLines 生成帮助文字，没有绑定按键的动作不显示
func helpLines(bindings map[types.Key]types.Action) []string {
	keys := make(map[types.Action][]types.Key)
	for key, action := range bindings {
		keys[action] = append(keys[action], key)
	}
	keyName := func(action types.Action) string {
		ks := keys[action]
		if len(ks) == 0 {
			return ""
		}
		slices.Sort(ks)
		names := make([]string, len(ks))
		for i, k := range ks {
			names[i] = k.String()
		}
		return strings.Join(names, ",")
	}
	pair := func(lower, upper types.Action) string {
		l, u := keyName(lower), keyName(upper)
		if l == "" && u == "" {
			return ""
		}
		if l == "" {
			l = "-"
		}
		if u == "" {
			u = "-"
		}
		return l + "/" + u
	}

	var lines []string
	add := func(keys, text string) {
		if keys != "" {
			lines = append(lines, keys+text)
		}
	}
	add(pair(types.ActionSpeedDown, types.ActionSpeedUp), " to Decrease/Increase Particle Speed")
	add(pair(types.ActionDissolveSlower, types.ActionDissolveFaster), " to Decrease/Increase Decay Rate")
	add(keyName(types.ActionToggleDissolve), " to Toggle Dissolve")
	add(keyName(types.ActionToggleFullscreen), " to Toggle Fullscreen")
	lines = append(lines, "Right Click+Drag to Shift Gravity")
	add(keyName(types.ActionToggleShape), " to Change Distribution Type")
	lines = append(lines, "Middle Click clears Gravity", "Left Click to Add")
	add(keyName(types.ActionQuit), " to Quit")
	return lines
}

package types

import (
	"fmt"
	"strings"
)

// Action 是按键可以触发的参数调整
type Action int

const (
	// ActionNone 无动作
	ActionNone Action = iota
	// ActionToggleDissolve 切换溶解
	ActionToggleDissolve
	// ActionDissolveSlower 溶解速率 -1（不低于 0）
	ActionDissolveSlower
	// ActionDissolveFaster 溶解速率 +1
	ActionDissolveFaster
	// ActionSpeedDown 速度倍率 -10%
	ActionSpeedDown
	// ActionSpeedUp 速度倍率 +10%
	ActionSpeedUp
	// ActionToggleShape 切换发射分布
	ActionToggleShape
	// ActionToggleFullscreen 切换全屏
	ActionToggleFullscreen
	// ActionQuit 退出
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionToggleDissolve:   "toggleDissolve",
	ActionDissolveSlower:   "dissolveSlower",
	ActionDissolveFaster:   "dissolveFaster",
	ActionSpeedDown:        "speedDown",
	ActionSpeedUp:          "speedUp",
	ActionToggleShape:      "toggleShape",
	ActionToggleFullscreen: "toggleFullscreen",
	ActionQuit:             "quit",
}

// String 返回动作名称
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction 解析配置中的动作名称（不区分大小写）
func ParseAction(name string) (Action, error) {
	name = strings.TrimSpace(name)
	for a, n := range actionNames {
		if strings.EqualFold(n, name) {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

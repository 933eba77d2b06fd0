// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// Key 是与后端无关的按键码
// 各显示后端（ebiten / 终端）把自己的按键翻译成 Key
type Key int

const (
	// KeyUnknown 未映射的按键
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyBackspace
	KeyF11
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

var keyNames = map[Key]string{
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyF11:       "F11",
}

// String 返回按键名称（与配置文件中使用的名称一致）
func (k Key) String() string {
	if k >= KeyA && k <= KeyZ {
		return string(rune('A' + int(k-KeyA)))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KeyFromRune 把字母字符翻译成 Key，非字母返回 KeyUnknown
func KeyFromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	case r == ' ':
		return KeySpace
	default:
		return KeyUnknown
	}
}

// ParseKey 解析配置中的按键名称（不区分大小写）
func ParseKey(name string) (Key, error) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		if k := KeyFromRune(rune(name[0])); k != KeyUnknown && k != KeySpace {
			return k, nil
		}
	}
	for k, n := range keyNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	if strings.EqualFold(name, "esc") {
		return KeyEscape, nil
	}
	return KeyUnknown, fmt.Errorf("unknown key name %q", name)
}

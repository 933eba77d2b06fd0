// Package utils 提供 ebiten 输入相关的工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/particlestorm/pkg/types"
)

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsPointerPressed 检查是否有指针按下（鼠标左键或触摸）
func IsPointerPressed() bool {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return true
	}
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// TranslateKey 把 ebiten 按键翻译为 types.Key，不支持的按键返回 KeyUnknown
func TranslateKey(k ebiten.Key) types.Key {
	key, err := types.ParseKey(k.String())
	if err != nil {
		return types.KeyUnknown
	}
	return key
}

// AppendJustPressedKeys 把本帧刚按下的按键（已翻译）追加到 keys
// 不支持的按键被忽略
func AppendJustPressedKeys(keys []types.Key) []types.Key {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if key := TranslateKey(k); key != types.KeyUnknown {
			keys = append(keys, key)
		}
	}
	return keys
}

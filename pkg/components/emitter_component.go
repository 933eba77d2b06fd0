package components

import (
	"fmt"
	"strings"
)

// EmissionShape 决定新粒子初速度的随机分布
type EmissionShape uint8

const (
	// ShapeCircle 按随机角度的余弦/正弦上界采样速度
	ShapeCircle EmissionShape = iota
	// ShapeSquare 两个速度分量各自在 [-1, 1] 上均匀采样
	ShapeSquare

	shapeCount
)

// String 返回分布名称（用于配置和调试叠加层）
func (s EmissionShape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Next 返回循环切换后的下一个分布
func (s EmissionShape) Next() EmissionShape {
	return (s + 1) % shapeCount
}

// ParseEmissionShape 解析配置中的分布名称（不区分大小写）
func ParseEmissionShape(name string) (EmissionShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	default:
		return ShapeCircle, fmt.Errorf("unknown emission shape %q (want circle or square)", name)
	}
}

// EmitterComponent 描述发射器：新粒子的出生点和速度分布
//
// 出生点跟随指针移动，分布由按键循环切换。
type EmitterComponent struct {
	Origin Vec2          // 粒子出生点（画布坐标）
	Shape  EmissionShape // 初速度分布
}

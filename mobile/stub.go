//go:build !mobile

// Package mobile 是粒子风暴的 ebitenmobile 绑定
//
// 桌面构建只编译本文件和 setup.go：绑定入口 mobile.go 与嵌入的配置
// embed.go 需要 -tags mobile，以及 make prepare-mobile 复制的 data/。
package mobile

// Dummy 供 ebitenmobile 识别包的导出符号
func Dummy() {}

//go:build mobile

package utils

// MobileEmulateEnv 在移动端构建中没有作用，保留以便两种构建共用同一个名字
const MobileEmulateEnv = "PARTICLESTORM_MOBILE_EMULATE"

// IsMobile 在 ebitenmobile 构建中恒为 true，App 据此跳过全屏切换
func IsMobile() bool {
	return true
}

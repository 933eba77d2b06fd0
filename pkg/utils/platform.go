//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设为 "1" 时桌面构建按移动端处理：全屏切换被忽略
const MobileEmulateEnv = "PARTICLESTORM_MOBILE_EMULATE"

// IsMobile 报告是否按移动端运行
// 桌面构建只看 MobileEmulateEnv，便于在窗口里调试触摸发射
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}

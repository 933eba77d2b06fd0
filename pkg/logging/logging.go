// Package logging 构建演示程序使用的 zap 日志器
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decker502/particlestorm/pkg/config"
)

// Level 解析日志级别，无法识别时返回 info
func Level(name string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// New 根据配置创建日志器
//
// console 格式输出彩色级别和短时间戳，json 格式使用 zap 的生产配置。
// verbose 为 true 时强制 debug 级别。File 非空时输出写入该文件。
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(Level(cfg.Level, verbose))
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}

// DefaultTerminalLogFile 终端后端未配置日志文件时使用的路径
func DefaultTerminalLogFile() string {
	return filepath.Join(os.TempDir(), "particlestorm.log")
}

// ForTerminal 返回适用于终端后端的日志配置
// tcell 接管了 tty，日志不能再写到 stderr
func ForTerminal(cfg config.LoggingConfig) config.LoggingConfig {
	if cfg.File == "" {
		cfg.File = DefaultTerminalLogFile()
	}
	return cfg
}

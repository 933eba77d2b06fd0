package mobile

import (
	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/logging"
)

// setup 解析内置配置并调整为移动端设置，返回配置和日志器
//
// 移动端只有 ebiten 后端；触摸时不显示按键帮助。
// 日志级别沿用配置，发布包不打开 debug。
func setup(data []byte) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadBytes(data, config.FormatYAML)
	if err != nil {
		return nil, nil, err
	}
	cfg.Backend = config.BackendEbiten
	cfg.Overlay.ShowHelp = false

	logger, err := logging.New(cfg.Logging, false)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

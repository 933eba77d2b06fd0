package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/types"
)

// 显示后端名称
const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
)

// Format 配置文件格式
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultConfigPath 是嵌入的默认配置路径（见 pkg/embedded）
const DefaultConfigPath = "data/particlestorm.yaml"

// Config 是演示程序的完整配置
//
// 配置文件可以是 YAML 或 TOML，未出现的字段保留 Defaults() 中的值。
type Config struct {
	// Backend 显示后端："ebiten"（窗口）或 "terminal"（终端）
	Backend string `yaml:"backend" toml:"backend"`

	Window    WindowConfig    `yaml:"window" toml:"window"`
	Scheduler SchedulerConfig `yaml:"scheduler" toml:"scheduler"`
	Particles ParticlesConfig `yaml:"particles" toml:"particles"`
	Controls  ControlsConfig  `yaml:"controls" toml:"controls"`
	Overlay   OverlayConfig   `yaml:"overlay" toml:"overlay"`
	Terminal  TerminalConfig  `yaml:"terminal" toml:"terminal"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// WindowConfig 窗口配置（ebiten 后端）
type WindowConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Title      string `yaml:"title" toml:"title"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// SchedulerConfig 固定步长调度配置
type SchedulerConfig struct {
	// UpdateStepMs 每个模拟步长（毫秒）
	UpdateStepMs int `yaml:"updateStepMs" toml:"update_step_ms"`
	// MaxStepsPerFrame 每帧最多执行的模拟步数（追帧上限）
	MaxStepsPerFrame int `yaml:"maxStepsPerFrame" toml:"max_steps_per_frame"`
	// FrameIntervalMs 自驱动后端（终端）两帧之间的间隔
	FrameIntervalMs int `yaml:"frameIntervalMs" toml:"frame_interval_ms"`
}

// ParticlesConfig 粒子系统初始参数
type ParticlesConfig struct {
	InitialCount    int     `yaml:"initialCount" toml:"initial_count"`
	EmitBurst       int     `yaml:"emitBurst" toml:"emit_burst"`
	Speed           float64 `yaml:"speed" toml:"speed"`
	SpeedStep       float64 `yaml:"speedStep" toml:"speed_step"`
	DissolutionRate int     `yaml:"dissolutionRate" toml:"dissolution_rate"`
	Dissolve        bool    `yaml:"dissolve" toml:"dissolve"`
	Shape           string  `yaml:"shape" toml:"shape"`
	// Seed 随机种子，0 表示按时间播种
	Seed uint64 `yaml:"seed" toml:"seed"`
}

// ControlsConfig 输入映射配置
type ControlsConfig struct {
	// GravityDragFactor 右键拖动时 (上次指针 - 当前指针) 的缩放系数
	GravityDragFactor float64 `yaml:"gravityDragFactor" toml:"gravity_drag_factor"`
	// Bindings 按键名 → 动作名，覆盖同名的默认绑定
	Bindings map[string]string `yaml:"bindings" toml:"bindings"`
}

// OverlayConfig 诊断文字叠加层配置
type OverlayConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// FontPath 字体文件路径，为空时使用内置等宽字体
	FontPath string  `yaml:"fontPath" toml:"font_path"`
	FontSize float64 `yaml:"fontSize" toml:"font_size"`
	ShowHelp bool    `yaml:"showHelp" toml:"show_help"`
}

// TerminalConfig 终端后端配置
type TerminalConfig struct {
	// CellWidth/CellHeight 每个字符单元对应的画布像素
	CellWidth  int    `yaml:"cellWidth" toml:"cell_width"`
	CellHeight int    `yaml:"cellHeight" toml:"cell_height"`
	Glyph      string `yaml:"glyph" toml:"glyph"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "console" 或 "json"
	// File 非空时日志写入该文件而不是 stderr
	// 终端后端占用 stderr 所在的 tty，未设置时日志写到临时目录
	File string `yaml:"file" toml:"file"`
}

// DefaultBindings 返回默认按键绑定
func DefaultBindings() map[string]string {
	return map[string]string{
		"Space":  types.ActionToggleDissolve.String(),
		"A":      types.ActionDissolveSlower.String(),
		"S":      types.ActionDissolveFaster.String(),
		"Q":      types.ActionSpeedDown.String(),
		"W":      types.ActionSpeedUp.String(),
		"E":      types.ActionToggleShape.String(),
		"F":      types.ActionToggleFullscreen.String(),
		"Escape": types.ActionQuit.String(),
	}
}

// Defaults 返回默认配置
func Defaults() *Config {
	return &Config{
		Backend: BackendEbiten,
		Window: WindowConfig{
			Width:  1400,
			Height: 1000,
			Title:  "Inside the Particle Storm",
			VSync:  true,
		},
		Scheduler: SchedulerConfig{
			UpdateStepMs:     20,
			MaxStepsPerFrame: 5,
			FrameIntervalMs:  16,
		},
		Particles: ParticlesConfig{
			InitialCount:    1000,
			EmitBurst:       50,
			Speed:           100,
			SpeedStep:       0.1,
			DissolutionRate: 4,
			Shape:           components.ShapeCircle.String(),
		},
		Controls: ControlsConfig{
			GravityDragFactor: 0.75,
			Bindings:          DefaultBindings(),
		},
		Overlay: OverlayConfig{
			Enabled:  true,
			FontSize: 12,
			ShowHelp: true,
		},
		Terminal: TerminalConfig{
			CellWidth:  8,
			CellHeight: 16,
			Glyph:      "•",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// FormatFromPath 根据扩展名判断配置格式
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Load 从文件加载配置
//
// 参数:
//   - path: 配置文件路径，扩展名决定格式
//
// 返回:
//   - *Config: 合并默认值并通过校验的配置
//   - error: 读取、解析或校验失败
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := LoadBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes 从内存数据加载配置（用于嵌入的默认配置）
func LoadBytes(data []byte, format Format) (*Config, error) {
	cfg := Defaults()
	defaultBindings := cfg.Controls.Bindings
	cfg.Controls.Bindings = nil

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	// 用户绑定覆盖同名默认绑定
	merged := maps.Clone(defaultBindings)
	for keyName, action := range cfg.Controls.Bindings {
		if key, err := types.ParseKey(keyName); err == nil {
			keyName = key.String()
		}
		merged[keyName] = action
	}
	cfg.Controls.Bindings = merged

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendEbiten, BackendTerminal:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendEbiten, BackendTerminal)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Scheduler.UpdateStepMs <= 0 {
		return fmt.Errorf("scheduler.updateStepMs must be > 0, got %d", c.Scheduler.UpdateStepMs)
	}
	if c.Scheduler.MaxStepsPerFrame < 1 {
		return fmt.Errorf("scheduler.maxStepsPerFrame must be >= 1, got %d", c.Scheduler.MaxStepsPerFrame)
	}
	if c.Scheduler.FrameIntervalMs <= 0 {
		return fmt.Errorf("scheduler.frameIntervalMs must be > 0, got %d", c.Scheduler.FrameIntervalMs)
	}

	if c.Particles.InitialCount < 0 {
		return fmt.Errorf("particles.initialCount must be >= 0, got %d", c.Particles.InitialCount)
	}
	if c.Particles.EmitBurst < 0 {
		return fmt.Errorf("particles.emitBurst must be >= 0, got %d", c.Particles.EmitBurst)
	}
	if c.Particles.Speed < 0 {
		return fmt.Errorf("particles.speed must be >= 0, got %v", c.Particles.Speed)
	}
	if c.Particles.SpeedStep <= 0 || c.Particles.SpeedStep >= 1 {
		return fmt.Errorf("particles.speedStep must be in (0, 1), got %v", c.Particles.SpeedStep)
	}
	if c.Particles.DissolutionRate < 0 || c.Particles.DissolutionRate > 255 {
		return fmt.Errorf("particles.dissolutionRate must be in [0, 255], got %d", c.Particles.DissolutionRate)
	}
	if _, err := components.ParseEmissionShape(c.Particles.Shape); err != nil {
		return fmt.Errorf("particles.shape: %w", err)
	}

	if _, err := c.KeyBindings(); err != nil {
		return err
	}

	if c.Overlay.FontSize <= 0 {
		return fmt.Errorf("overlay.fontSize must be > 0, got %v", c.Overlay.FontSize)
	}

	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size must be positive, got %dx%d", c.Terminal.CellWidth, c.Terminal.CellHeight)
	}
	if c.Terminal.Glyph == "" {
		return fmt.Errorf("terminal.glyph must not be empty")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}

// KeyBindings 把配置中的按键绑定解析为 Key → Action 映射
func (c *Config) KeyBindings() (map[types.Key]types.Action, error) {
	bindings := make(map[types.Key]types.Action, len(c.Controls.Bindings))
	for keyName, actionName := range c.Controls.Bindings {
		key, err := types.ParseKey(keyName)
		if err != nil {
			return nil, fmt.Errorf("controls.bindings: %w", err)
		}
		action, err := types.ParseAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("controls.bindings[%s]: %w", keyName, err)
		}
		if action == types.ActionNone {
			continue
		}
		bindings[key] = action
	}
	return bindings, nil
}

// EmissionShape 返回解析后的初始发射分布（配置已校验时不会失败）
func (c *Config) EmissionShape() components.EmissionShape {
	shape, _ := components.ParseEmissionShape(c.Particles.Shape)
	return shape
}

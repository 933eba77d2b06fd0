// Inside the Particle Storm - 交互式粒子风暴演示
//
// 用法:
//
//	go run . [flags]
//
// Flags:
//
//	-config <path>     配置文件（.yaml/.yml/.toml），默认使用内置配置
//	-backend <name>    显示后端：ebiten 或 terminal
//	-seed <n>          随机种子，0 表示按时间播种
//	-particles <n>     启动时发射的粒子数
//	-verbose           输出 debug 日志
//
// 也可以通过环境变量 PARTICLESTORM_CONFIG 指定配置文件。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/app"
	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/embedded"
	"github.com/decker502/particlestorm/pkg/logging"
	"github.com/decker502/particlestorm/pkg/terminal"
)

// options 命令行参数
type options struct {
	configPath string
	backend    string
	verbose    bool
	seed       uint64
	particles  int

	// 记录显式设置的参数，未设置的不覆盖配置文件
	set map[string]bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("particlestorm", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", os.Getenv("PARTICLESTORM_CONFIG"), "config file (.yaml, .yml or .toml); empty uses the built-in config")
	fs.StringVar(&opts.backend, "backend", "", "display backend: ebiten or terminal")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed (0 = time-seeded)")
	fs.IntVar(&opts.particles, "particles", 0, "number of particles emitted at startup")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig 加载配置文件（或内置配置）并应用命令行覆盖
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		var data []byte
		data, err = embedded.ReadFile(config.DefaultConfigPath)
		if err != nil {
			return nil, fmt.Errorf("read built-in config: %w", err)
		}
		cfg, err = config.LoadBytes(data, config.FormatYAML)
	}
	if err != nil {
		return nil, err
	}

	if opts.set["backend"] {
		cfg.Backend = opts.backend
	}
	if opts.set["seed"] {
		cfg.Particles.Seed = opts.seed
	}
	if opts.set["particles"] {
		cfg.Particles.InitialCount = opts.particles
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 初始化嵌入资源（必须在加载配置之前）
	embedded.Init(dataFS)

	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(loggingConfig(cfg), opts.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("backend", cfg.Backend), zap.String("config", configName(opts)))

	switch cfg.Backend {
	case config.BackendTerminal:
		err = runTerminal(cfg, logger)
	default:
		err = runWindow(cfg, logger)
	}
	if err != nil {
		logger.Error("stopped with error", zap.Error(err))
		return err
	}
	logger.Info("bye")
	return nil
}

// loggingConfig 终端后端的日志不能写到 tcell 占用的 tty
func loggingConfig(cfg *config.Config) config.LoggingConfig {
	if cfg.Backend == config.BackendTerminal {
		return logging.ForTerminal(cfg.Logging)
	}
	return cfg.Logging
}

func configName(opts *options) string {
	if opts.configPath == "" {
		return "built-in"
	}
	return opts.configPath
}

func runWindow(cfg *config.Config, logger *zap.Logger) error {
	a, err := app.NewApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("init window backend: %w", err)
	}
	a.ConfigureWindow()

	// Update 返回 ebiten.Termination 时 RunGame 返回 nil
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func runTerminal(cfg *config.Config, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := terminal.Run(ctx, cfg, screen, logger); err != nil {
		return fmt.Errorf("terminal backend: %w", err)
	}
	return nil
}

// Package main 提供无显示运行粒子模拟的工具，用于性能分析和冒烟测试
//
// 调度器由手动推进的时钟驱动，输入来自脚本，显示只统计粒子数。
//
// Usage:
//
//	go run ./cmd/headless [flags]
//
// Flags:
//
//	--config <path>     配置文件（默认使用内置默认值）
//	--frames <n>        运行的帧数
//	--frame-ms <n>      每帧推进的模拟时间（毫秒）
//	--hold <n>          前 n 帧按住左键发射粒子
//	--every <n>         每 n 帧输出一次统计
//	--seed <n>          随机种子
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/decker502/particlestorm/pkg/components"
	"github.com/decker502/particlestorm/pkg/config"
	"github.com/decker502/particlestorm/pkg/game"
	"github.com/decker502/particlestorm/pkg/logging"
	"github.com/decker502/particlestorm/pkg/systems"
)

var (
	configFlag  = flag.String("config", "", "config file (.yaml, .yml or .toml)")
	framesFlag  = flag.Int("frames", 300, "number of frames to run")
	frameMsFlag = flag.Int("frame-ms", 16, "simulated time per frame in milliseconds")
	holdFlag    = flag.Int("hold", 60, "hold the primary button for the first n frames")
	everyFlag   = flag.Int("every", 30, "print stats every n frames")
	seedFlag    = flag.Uint64("seed", 1, "random seed (0 = time-seeded)")
	verboseFlag = flag.Bool("verbose", false, "enable debug logging")
)

// countingDisplay 只记录每帧的粒子数
type countingDisplay struct {
	points     systems.PointBuffer
	lastCount  int
	peakCount  int
	fullscreen bool
}

func (d *countingDisplay) Present(frame game.Frame) {
	d.points.Reset()
	frame.Scene.Draw(&d.points)
	d.lastCount = len(d.points)
	d.peakCount = max(d.peakCount, d.lastCount)
}

func (d *countingDisplay) ToggleFullscreen() {
	d.fullscreen = !d.fullscreen
}

// runOptions 一次无头运行的参数
type runOptions struct {
	Frames  int
	FrameMs int
	Hold    int
	Every   int
}

// result 运行结果
type result struct {
	Frames    int
	Steps     int
	Final     int
	Peak      int
	Simulated time.Duration
}

// simulate 按参数驱动调度器，统计行写到 out
func simulate(cfg *config.Config, opts runOptions, out io.Writer, logger *zap.Logger) (*result, error) {
	if opts.Frames <= 0 || opts.FrameMs <= 0 {
		return nil, fmt.Errorf("frames and frame-ms must be positive, got %d and %d", opts.Frames, opts.FrameMs)
	}

	sim, err := game.NewSimulation(cfg, cfg.Window.Width, cfg.Window.Height, logger)
	if err != nil {
		return nil, err
	}

	clock := &game.ManualClock{}
	input := &game.QueueInput{}
	input.SetPointer(components.Vec2{X: float32(cfg.Window.Width) / 2, Y: float32(cfg.Window.Height) / 2})
	display := &countingDisplay{}

	scheduler, err := sim.NewScheduler(clock, input, display, game.NewFPSCounter(clock.Now))
	if err != nil {
		return nil, err
	}

	res := &result{}
	frameDuration := time.Duration(opts.FrameMs) * time.Millisecond
	for frame := 0; frame < opts.Frames && scheduler.State() == game.StateRunning; frame++ {
		input.SetButton(game.ButtonPrimary, frame < opts.Hold)
		clock.Advance(frameDuration)
		res.Steps += scheduler.Frame()
		res.Frames++

		if opts.Every > 0 && (frame+1)%opts.Every == 0 {
			fmt.Fprintf(out, "frame %5d  steps %6d  particles %7d\n", frame+1, res.Steps, display.lastCount)
		}
	}

	res.Final = display.lastCount
	res.Peak = display.peakCount
	res.Simulated = time.Duration(clock.ElapsedMillis()) * time.Millisecond
	return res, nil
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// run 返回进程退出码，保证 logger.Sync 在退出前执行
func run() int {
	cfg := config.Defaults()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			return 1
		}
	}
	cfg.Particles.Seed = *seedFlag

	logger, err := logging.New(cfg.Logging, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	started := time.Now()
	res, err := simulate(cfg, runOptions{
		Frames:  *framesFlag,
		FrameMs: *frameMsFlag,
		Hold:    *holdFlag,
		Every:   *everyFlag,
	}, os.Stdout, logger)
	if err != nil {
		logger.Error("headless run failed", zap.Error(err))
		return 1
	}

	fmt.Printf("\n%d frames, %d steps, %v simulated in %v\n", res.Frames, res.Steps, res.Simulated, time.Since(started).Round(time.Millisecond))
	fmt.Printf("particles: final %d, peak %d\n", res.Final, res.Peak)
	return 0
}

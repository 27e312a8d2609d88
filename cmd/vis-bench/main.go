// Command vis-bench populates one or more worlds from a scene file and runs
// the visibility pass against an orbiting camera as fast as it can, then
// prints a timing report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/internal/logging"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	scenePath := flag.String("scene", "", "Scene YAML file; the built-in scene is used when empty.")
	worlds := flag.Int("worlds", 1, "Number of independent worlds to run concurrently.")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(logger, *scenePath, *worlds, *duration, *gcPauseMetrics); err != nil {
		logger.Fatal("benchmark failed", zap.Error(err))
	}
}

func run(logger *zap.Logger, scenePath string, worlds int, duration time.Duration, gcPauseMetrics bool) error {
	if worlds < 1 {
		return fmt.Errorf("-worlds must be at least 1, got %d", worlds)
	}

	cfg := scene.Default()
	sceneName := "built-in"
	if scenePath != "" {
		var err error
		if cfg, err = scene.Load(scenePath); err != nil {
			return err
		}
		sceneName = scenePath
	}

	report := &Report{
		Duration:       duration,
		Scene:          sceneName,
		Seed:           cfg.Seed,
		Entities:       cfg.Total(),
		Worlds:         make([]WorldResult, worlds),
		GCPauseMetrics: gcPauseMetrics,
	}

	logger.Info("starting visibility benchmark",
		zap.String("scene", sceneName),
		zap.Int("worlds", worlds),
		zap.Int("entities_per_world", report.Entities),
		zap.Duration("duration", duration))

	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i := range worlds {
		worldCfg := cfg
		worldCfg.Seed = cfg.Seed + uint64(i)
		g.Go(func() error {
			result, err := runWorld(ctx, logger.With(zap.Int("world", i)), worldCfg)
			if err != nil {
				return fmt.Errorf("world %d: %w", i, err)
			}
			result.World = i
			report.Worlds[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)
	logger.Info("benchmark finished", zap.Duration("elapsed", report.TotalTime))

	fmt.Println("\n\n--- Visibility Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// runWorld builds one world and steps it until ctx is done.
func runWorld(ctx context.Context, logger *zap.Logger, cfg scene.Config) (WorldResult, error) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	pop, err := scene.Populate(storage, cfg)
	if err != nil {
		return WorldResult{}, err
	}
	logger.Debug("world populated", zap.Stringer("population", pop))

	scheduler := ecs.NewScheduler(storage)
	scheduler.SetLogger(logger)
	scheduler.Register(&scene.OrbitSystem{})
	visibility := render.NewVisibilitySortingSystem(logger)
	scheduler.Register(visibility)

	result := WorldResult{Population: pop}
	visible := ecs.NewSingleton(storage, render.NewVisibility())

	var lastDigest uint64
	var visibleTotal int
	lastFrameTime := time.Now()

	for ctx.Err() == nil {
		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		scheduler.Once(deltaTime.Seconds())
		result.UpdateTime.Samples = append(result.UpdateTime.Samples, time.Since(updateStart))
		result.TotalUpdates++

		vis := visible.Get()
		visibleTotal += vis.Len()
		if digest := vis.Digest(); digest != lastDigest {
			result.DigestChanges++
			lastDigest = digest
		}
	}

	result.UpdateTime.Finalize()
	result.Scheduler = scheduler.GetStats()
	result.Visibility = visibility.Stats()
	if result.TotalUpdates > 0 {
		result.AvgVisible = float64(visibleTotal) / float64(result.TotalUpdates)
	}
	return result, nil
}

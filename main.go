package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/config"
	"github.com/lumipallolabs/foldersize/internal/core"
	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
	"github.com/lumipallolabs/foldersize/internal/prefs"
	"github.com/lumipallolabs/foldersize/internal/report"
	"github.com/lumipallolabs/foldersize/internal/scanner"
	"github.com/lumipallolabs/foldersize/internal/ui"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Debug {
		logging.Enable(logging.DefaultFile)
	}

	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cpuProfile)
	}

	acc := scanner.NewOSAccessor(scanner.Options{
		Workers:        cfg.Workers,
		FollowSymlinks: cfg.FollowSymlinks,
		OneFileSystem:  cfg.OneFileSystem,
		DiskUsage:      cfg.DiskUsage,
	})
	coord := core.NewCoordinator(acc, cache.New(), core.Options{Policy: cfg.Policy})

	if cfg.Print {
		defer coord.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return report.Run(ctx, coord, cfg.Path, report.Options{
			Output:       cfg.Output,
			Sort:         cfg.SortMode(model.SortBySize),
			Top:          cfg.Top,
			MinSize:      uint64(cfg.MinSize),
			PollInterval: cfg.PollInterval,
			Progress:     report.IsTerminal(os.Stderr) && cfg.Output != "json",
		}, os.Stdout, os.Stderr)
	}

	prefsMgr := prefs.NewManager()
	if err := prefsMgr.Load(); err != nil {
		logging.Debug.Printf("Failed to load preferences: %v", err)
	}

	sortMode, err := model.ParseSortMode(prefsMgr.SortMode())
	if err != nil {
		sortMode = model.SortBySize
	}

	ctrl := core.NewController(coord, acc, prefsMgr)
	defer ctrl.Close()

	if cfg.Watch {
		if err := ctrl.StartWatching(); err != nil {
			logging.Debug.Printf("Failed to start watcher: %v", err)
		}
	}

	return ui.Run(ctrl, acc.Exists, ui.Options{
		StartPath:    cfg.Path,
		Sort:         cfg.SortMode(sortMode),
		PollInterval: cfg.PollInterval,
		Watch:        cfg.Watch,
		Prefs:        prefsMgr,
	})
}

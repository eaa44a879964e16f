package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/packlint/packlint/pkg/classify"
	"github.com/packlint/packlint/pkg/loader"
	"github.com/packlint/packlint/pkg/parser"
	"github.com/packlint/packlint/pkg/policy"
	"github.com/packlint/packlint/pkg/typecheck"
	"github.com/packlint/packlint/pkg/watch"
)

// runWatch implements the watch subcommand: run the check once, then
// re-run it whenever source files under the root change. Watch mode is
// always lenient about exiting — violations are reported, the process
// keeps watching.
func runWatch(args []string) int {
	cf, err := parseCheckFlags("watch", args)
	if err != nil {
		return 2
	}

	cfg, err := loadProjectConfig(cf.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 2
	}
	applyFlags(cfg, cf)

	root := cf.paths[0]
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "watch needs a directory, got %s\n", root)
		return 2
	}

	logger := newLogger(cfg.LogLevel)

	manager := parser.NewManager(logger)
	defer manager.Close()

	files, err := loader.New(0, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	defer files.Close()

	checker := policy.NewChecker(
		classify.NewAnalyzer(manager, logger),
		typecheck.NewCompilerEngine(logger),
		logger,
	)

	runOnce := func() {
		units, err := collectUnits([]string{root}, cfg.Discover, files, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "packlint: %v\n", err)
			return
		}
		_, violations, err := checker.Check(context.Background(), units, policy.Config{
			Mode:      policy.FailFast,
			NoCheck:   cfg.NoCheck,
			TypeCheck: cfg.TypeCheck,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "packlint: %v\n", err)
			return
		}
		if len(violations) == 0 {
			fmt.Fprintf(os.Stderr, "ok: %d files, no violations\n", len(units))
			return
		}
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", v.Check, v.Message)
		}
	}

	watcher, err := watch.New(watch.DefaultOptions(), func(changed []string) {
		for _, path := range changed {
			files.Invalidate(path)
		}
		runOnce()
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	runOnce()

	if err := watcher.Start(root); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return 0
}

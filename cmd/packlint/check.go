package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/packlint/packlint/pkg/classify"
	"github.com/packlint/packlint/pkg/discover"
	"github.com/packlint/packlint/pkg/loader"
	"github.com/packlint/packlint/pkg/parser"
	"github.com/packlint/packlint/pkg/policy"
	"github.com/packlint/packlint/pkg/typecheck"
	"github.com/packlint/packlint/pkg/util"
)

// checkFlags are the parsed check/watch command-line options merged with
// the project config.
type checkFlags struct {
	strict     bool
	noCheck    bool
	configPath string
	tscPath    string
	logLevel   string
	paths      []string
}

func parseCheckFlags(name string, args []string) (*checkFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cf := &checkFlags{}
	fs.BoolVar(&cf.strict, "strict", false, "exit non-zero on any violation")
	fs.BoolVar(&cf.noCheck, "no-check", false, "skip the type-check pass")
	fs.StringVar(&cf.configPath, "config", "", "path to config file")
	fs.StringVar(&cf.tscPath, "tsc", "", "type checker executable")
	fs.StringVar(&cf.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cf.paths = fs.Args()
	if len(cf.paths) == 0 {
		cf.paths = []string{"."}
	}
	return cf, nil
}

// runCheck implements the check subcommand and returns the process exit
// code. All policy decisions live here: the packages below only ever
// return reports and violations.
func runCheck(args []string) int {
	cf, err := parseCheckFlags("check", args)
	if err != nil {
		return 2
	}

	cfg, err := loadProjectConfig(cf.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 2
	}
	applyFlags(cfg, cf)

	mode, err := policy.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	if cf.strict {
		mode = policy.FailFast
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

	units, err := collectUnits(cf.paths, cfg.Discover, files, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	checker := policy.NewChecker(
		classify.NewAnalyzer(manager, logger),
		typecheck.NewCompilerEngine(logger),
		logger,
	)

	start := time.Now()
	report, violations, err := checker.Check(context.Background(), units, policy.Config{
		Mode:      mode,
		NoCheck:   cfg.NoCheck,
		TypeCheck: cfg.TypeCheck,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "packlint: %v\n", err)
		return 1
	}
	if !cfg.NoCheck {
		fmt.Fprintf(os.Stderr, "check completed in %s (%d files)\n",
			time.Since(start).Round(time.Millisecond), len(units))
	}

	return reportOutcome(mode, report, violations)
}

// reportOutcome prints the result and picks the exit code. In fail-fast
// mode every violation is a warning line and any violation fails the
// run. In lenient mode the report is the output and the caller applies
// its own policy; type-check diagnostics are the one exception, since
// running the checker and ignoring its errors helps nobody.
func reportOutcome(mode policy.Mode, report *policy.Report, violations []policy.Violation) int {
	if mode == policy.FailFast {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", v.Check, v.Message)
		}
		if len(violations) > 0 {
			return 1
		}
		return 0
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	exit := 0
	for _, v := range violations {
		if v.Check == "type-check" {
			fmt.Fprintf(os.Stderr, "%s\n", v.Message)
			exit = 1
		}
	}
	return exit
}

// collectUnits expands the path arguments into an ordered batch.
// Directories are expanded through glob discovery; explicit file paths
// are taken verbatim, so an unsupported file named on the command line
// still reaches the extension classifier and flags the batch.
func collectUnits(paths []string, opts discover.Options, files *loader.Loader, logger *slog.Logger) ([]classify.SourceUnit, error) {
	var batch []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := discover.Files(path, opts, logger)
			if err != nil {
				return nil, err
			}
			batch = append(batch, found...)
		} else {
			batch = append(batch, path)
		}
	}

	units := make([]classify.SourceUnit, 0, len(batch))
	for _, path := range batch {
		content, err := files.Load(path)
		if err != nil {
			return nil, err
		}
		units = append(units, classify.SourceUnit{Path: path, Source: content})
	}
	return units, nil
}

func applyFlags(cfg *ProjectConfig, cf *checkFlags) {
	if cf.noCheck {
		cfg.NoCheck = true
	}
	if cf.tscPath != "" {
		cfg.TypeCheck.CompilerPath = cf.tscPath
	}
	if cf.logLevel != "" {
		cfg.LogLevel = cf.logLevel
	}
}

func newLogger(level string) *slog.Logger {
	logCfg := util.DefaultLoggerConfig()
	if level != "" {
		logCfg.Level = util.LogLevel(level)
	}
	return util.NewLogger(logCfg)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// Exit codes.
const (
	exitOK          = 0
	exitFindings    = 1
	exitUsage       = 2
	exitIO          = 3
	exitInterrupted = 130
)

func main() {
	app := &cli.App{
		Name:      "deadwood",
		Usage:     "Whole-program dead-code analyzer for Android Kotlin/Java projects",
		Version:   version,
		ArgsUsage: "[PATH]",
		Description: `Deadwood parses every Kotlin, Java, and Android XML file under a project
root, builds a declaration/reference graph, seeds entry points from
framework conventions, annotations, and XML bindings, and reports
declarations that are demonstrably unused. Coverage reports and R8/ProGuard
usage listings can confirm findings; confirmed dead code can be deleted
safely with an undo script.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file (YAML or TOML)", EnvVars: []string{"DEADWOOD_CONFIG"}},
			&cli.StringSliceFlag{Name: "target", Aliases: []string{"t"}, Usage: "Target directory to analyze (repeatable)"},
			&cli.StringSliceFlag{Name: "exclude", Aliases: []string{"e"}, Usage: "Glob to exclude (repeatable, segment-aware: **/test/**)"},
			&cli.StringSliceFlag{Name: "retain", Aliases: []string{"r"}, Usage: "Glob over simple names to retain (repeatable)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "terminal", Usage: "Output format: terminal, json, sarif, toon"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the report to a file"},
			&cli.BoolFlag{Name: "delete", Usage: "Delete dead declarations"},
			&cli.BoolFlag{Name: "interactive", Usage: "Review each deletion in a TUI before applying"},
			&cli.BoolFlag{Name: "dry-run", Usage: "With --delete: show what would be removed, write nothing"},
			&cli.StringFlag{Name: "undo-script", Usage: "With --delete: write a shell script restoring the originals"},
			&cli.StringFlag{Name: "detect", Usage: "Comma-separated detector codes to run (e.g. DC001,DC002)"},
			&cli.BoolFlag{Name: "deep", Usage: "Enable every detector including parameters, resources, and cycles"},
			&cli.BoolFlag{Name: "unused-params", Usage: "Enable the unused-parameter detector (DC003)"},
			&cli.BoolFlag{Name: "unused-resources", Usage: "Enable the unused Android resource detector"},
			&cli.StringSliceFlag{Name: "coverage", Usage: "JaCoCo/Kover XML or LCOV report (repeatable)"},
			&cli.StringFlag{Name: "proguard-usage", Usage: "R8/ProGuard usage.txt listing removed code"},
			&cli.StringFlag{Name: "min-confidence", Value: "low", Usage: "Filter: low, medium, high, confirmed"},
			&cli.BoolFlag{Name: "runtime-only", Usage: "Report only findings confirmed by runtime data"},
			&cli.BoolFlag{Name: "include-runtime-dead", Usage: "Also report reachable code with zero coverage"},
			&cli.BoolFlag{Name: "detect-cycles", Usage: "Report zombie cycles (mutually dependent dead code)"},
			&cli.BoolFlag{Name: "incremental", Usage: "Reuse cached parse results for unchanged files"},
			&cli.StringFlag{Name: "cache-path", Usage: "Directory for the incremental cache"},
			&cli.BoolFlag{Name: "clear-cache", Usage: "Drop the incremental cache before running"},
			&cli.StringFlag{Name: "baseline", Usage: "Suppress findings listed in this baseline file"},
			&cli.StringFlag{Name: "generate-baseline", Usage: "Write the current findings as a baseline and exit"},
			&cli.BoolFlag{Name: "watch", Usage: "Re-run analysis when source files change"},
			&cli.BoolFlag{Name: "verbose", Usage: "Print per-phase diagnostics"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress progress and warnings"},
		},
		Commands: []*cli.Command{
			initCmd,
			mcpCmd,
		},
		Action: runAnalyze,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(exitInterrupted)
		}
		color.Red("%v", err)
		os.Exit(exitUsage)
	}
}

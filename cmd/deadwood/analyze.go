package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/driftdetect/deadwood/internal/analysis"
	"github.com/driftdetect/deadwood/internal/cache"
	"github.com/driftdetect/deadwood/internal/output"
	"github.com/driftdetect/deadwood/internal/progress"
	"github.com/driftdetect/deadwood/internal/ui"
	"github.com/driftdetect/deadwood/pkg/baseline"
	"github.com/driftdetect/deadwood/pkg/config"
	"github.com/driftdetect/deadwood/pkg/models"
	"github.com/driftdetect/deadwood/pkg/refactor"
	"github.com/driftdetect/deadwood/pkg/watch"
)

func runAnalyze(c *cli.Context) error {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}

	cfg, err := config.Load(c.String("config"), root)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	mergeFlags(cfg, c)

	if err := validateFlags(c); err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	opts := buildOptions(root, cfg, c)

	cachePath := c.String("cache-path")
	if cachePath == "" {
		cachePath = cache.DefaultDir(root)
	}
	opts.CachePath = cachePath
	if c.Bool("clear-cache") {
		cc, err := cache.Open(cachePath, true)
		if err == nil {
			cc.Clear()
		}
	}

	if c.Bool("watch") {
		return runWatch(c, root, opts)
	}
	return runOnce(c.Context, c, root, opts)
}

// runOnce executes one analysis and renders/deletes per flags.
func runOnce(ctx context.Context, c *cli.Context, root string, opts analysis.Options) error {
	quiet := c.Bool("quiet")
	tracker := progress.NewTracker("Analyzing...", -1, quiet || c.String("format") != "terminal" || c.String("output") != "")
	opts.OnProgress = tracker.Tick

	outcome, err := analysis.Run(ctx, opts)
	tracker.Finish()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return cli.Exit("interrupted", exitInterrupted)
		}
		return cli.Exit(err.Error(), exitIO)
	}

	if c.Bool("verbose") && !quiet {
		color.New(color.Faint).Fprintf(c.App.ErrWriter,
			"parsed %d files: %d declarations, %d references, %d reachable, %d parse errors\n",
			outcome.Summary.FilesAnalyzed, outcome.Summary.Declarations,
			outcome.Summary.References, outcome.Summary.Reachable, outcome.Summary.ParseErrors)
	}

	if path := c.String("generate-baseline"); path != "" {
		if err := baseline.Write(path, outcome.Findings); err != nil {
			return cli.Exit(err.Error(), exitIO)
		}
		if !quiet {
			color.Green("Baseline with %d findings written to %s", len(outcome.Findings), path)
		}
		return nil
	}

	if err := render(c, root, outcome); err != nil {
		return cli.Exit(err.Error(), exitIO)
	}

	if c.Bool("delete") {
		if err := applyDeletions(c, outcome.Findings); err != nil {
			return cli.Exit(err.Error(), exitIO)
		}
	}

	if opts.Cfg.Report.FailOnFindings && len(outcome.Findings) > 0 {
		return cli.Exit("", exitFindings)
	}
	return nil
}

// runWatch loops analysis on file changes.
func runWatch(c *cli.Context, root string, opts analysis.Options) error {
	run := func() {
		if err := runOnce(c.Context, c, root, opts); err != nil {
			var exitErr cli.ExitCoder
			if !errors.As(err, &exitErr) || exitErr.ExitCode() != exitFindings {
				color.Red("%v", err)
			}
		}
	}
	run()

	w, err := watch.New(root, 0, run)
	if err != nil {
		return cli.Exit(err.Error(), exitIO)
	}
	if !c.Bool("quiet") {
		color.Cyan("Watching %s for changes (ctrl-c to stop)", root)
	}
	if err := w.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(err.Error(), exitIO)
	}
	return cli.Exit("", exitInterrupted)
}

// mergeFlags overlays repeatable CLI flags onto file config; CLI wins.
func mergeFlags(cfg *config.Config, c *cli.Context) {
	if targets := c.StringSlice("target"); len(targets) > 0 {
		cfg.Targets = targets
	}
	cfg.Exclude = append(cfg.Exclude, c.StringSlice("exclude")...)
	cfg.RetainPatterns = append(cfg.RetainPatterns, c.StringSlice("retain")...)
	if c.IsSet("format") {
		cfg.Report.Format = c.String("format")
	}
}

func validateFlags(c *cli.Context) error {
	switch c.String("format") {
	case "terminal", "json", "sarif", "toon":
	default:
		return fmt.Errorf("invalid --format %q (terminal, json, sarif, toon)", c.String("format"))
	}
	switch c.String("min-confidence") {
	case "low", "medium", "high", "confirmed":
	default:
		return fmt.Errorf("invalid --min-confidence %q (low, medium, high, confirmed)", c.String("min-confidence"))
	}
	if c.Bool("runtime-only") && len(c.StringSlice("coverage")) == 0 && c.String("proguard-usage") == "" {
		return fmt.Errorf("--runtime-only needs --coverage or --proguard-usage")
	}
	if c.Bool("interactive") && !c.Bool("delete") {
		return fmt.Errorf("--interactive needs --delete")
	}
	if c.Bool("watch") && c.Bool("delete") {
		return fmt.Errorf("--watch and --delete cannot be combined")
	}
	return nil
}

func buildOptions(root string, cfg *config.Config, c *cli.Context) analysis.Options {
	opts := analysis.Options{
		Root:               root,
		Cfg:                cfg,
		MinConfidence:      models.ParseConfidence(c.String("min-confidence")),
		RuntimeOnly:        c.Bool("runtime-only"),
		IncludeRuntimeDead: c.Bool("include-runtime-dead"),
		DetectCycles:       c.Bool("detect-cycles"),
		UnusedParams:       c.Bool("unused-params"),
		UnusedResources:    c.Bool("unused-resources"),
		Deep:               c.Bool("deep"),
		CoverageFiles:      c.StringSlice("coverage"),
		ShrinkerUsage:      c.String("proguard-usage"),
		BaselinePath:       c.String("baseline"),
		Incremental:        c.Bool("incremental"),
	}
	if list := c.String("detect"); list != "" {
		for _, code := range strings.Split(list, ",") {
			code = strings.TrimSpace(strings.ToUpper(code))
			if code == "" {
				continue
			}
			opts.DetectCodes = append(opts.DetectCodes, code)
			switch code {
			case string(models.CodeUnusedResource):
				opts.UnusedResources = true
			case string(models.CodeZombieCycle):
				opts.DetectCycles = true
			case string(models.CodeUnusedParameter):
				opts.UnusedParams = true
			}
		}
	}
	if !c.Bool("quiet") {
		opts.Warn = func(format string, args ...any) {
			color.New(color.FgYellow).Fprintf(c.App.ErrWriter, format+"\n", args...)
		}
	}
	return opts
}

// render writes the report in the selected format.
func render(c *cli.Context, root string, outcome *analysis.Outcome) error {
	format := output.ParseFormat(c.String("format"))
	formatter, err := output.NewFormatter(format, c.String("output"), !c.Bool("quiet"))
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := models.NewReport(relativized(root, outcome.Findings), outcome.Summary)

	switch format {
	case output.FormatJSON:
		return formatter.OutputJSON(report)
	case output.FormatTOON:
		return formatter.OutputTOON(report)
	case output.FormatSARIF:
		data, err := output.GenerateSARIF(root, version, outcome.Findings)
		if err != nil {
			return err
		}
		_, err = formatter.Writer().Write(append(data, '\n'))
		return err
	default:
		return renderTerminal(c, formatter, report, outcome)
	}
}

// relativized rewrites finding paths relative to the project root for
// report output.
func relativized(root string, findings []models.Finding) []models.Finding {
	out := make([]models.Finding, len(findings))
	copy(out, findings)
	for i := range out {
		if rel, err := filepath.Rel(root, out[i].File); err == nil && !strings.HasPrefix(rel, "..") {
			out[i].File = filepath.ToSlash(rel)
		}
	}
	return out
}

func renderTerminal(c *cli.Context, formatter *output.Formatter, report *models.Report, outcome *analysis.Outcome) error {
	quiet := c.Bool("quiet")
	if len(report.Issues) == 0 {
		if !quiet {
			color.Green("No dead code found (%d declarations, %d reachable)",
				outcome.Summary.Declarations, outcome.Summary.Reachable)
		}
		return nil
	}

	var rows [][]string
	for _, issue := range report.Issues {
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d", issue.File, issue.Line),
			issue.Code,
			issue.Declaration.Name,
			formatter.ConfidenceColor(issue.Confidence),
			issue.Message,
		})
	}
	if err := formatter.Table("Dead Code", []string{"Location", "Code", "Name", "Confidence", "Message"}, rows); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(formatter.Writer(),
			"Summary: %d findings across %d files (%d declarations, %d reachable, %d suppressed by baseline)\n",
			report.TotalIssues, len(report.Summary.ByFile),
			report.Summary.Declarations, report.Summary.Reachable, report.Summary.Suppressed)
		if report.Summary.ZombieCycles > 0 {
			fmt.Fprintf(formatter.Writer(), "Zombie cycles: %d\n", report.Summary.ZombieCycles)
		}
	}
	return nil
}

// applyDeletions runs the delete flow, interactive or not.
func applyDeletions(c *cli.Context, findings []models.Finding) error {
	toDelete := findings
	if c.Bool("interactive") {
		accepted, err := ui.Review(findings)
		if err != nil {
			return err
		}
		toDelete = accepted
	}
	if len(toDelete) == 0 {
		return nil
	}

	plan := refactor.PlanDeletions(toDelete)
	result, err := refactor.Apply(plan, c.Bool("dry-run"))
	if err != nil {
		return err
	}

	quiet := c.Bool("quiet")
	if result.DryRun {
		if !quiet {
			color.Cyan("Dry run: %d declarations would be deleted", len(result.Deleted))
		}
		return nil
	}

	if script := c.String("undo-script"); script != "" && len(result.Backups) > 0 {
		if err := refactor.WriteUndoScript(script, result); err != nil {
			return err
		}
		if !quiet {
			color.Cyan("Undo script written to %s", script)
		}
	} else {
		refactor.RemoveBackups(result)
	}

	if !quiet {
		color.Green("Deleted %d declarations (%d files failed)", len(result.Deleted), len(result.Failed))
	}
	return nil
}

// Package analysis wires the full pipeline: discovery, parallel parsing,
// graph building, seeding, reachability, detection, augmentation, and
// aggregation. The CLI, watch mode, and the MCP server all run through
// Run.
package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/driftdetect/deadwood/internal/cache"
	"github.com/driftdetect/deadwood/internal/fileproc"
	"github.com/driftdetect/deadwood/internal/scanner"
	"github.com/driftdetect/deadwood/pkg/analyzer/aggregate"
	"github.com/driftdetect/deadwood/pkg/analyzer/cycles"
	"github.com/driftdetect/deadwood/pkg/analyzer/detect"
	"github.com/driftdetect/deadwood/pkg/analyzer/entrypoints"
	"github.com/driftdetect/deadwood/pkg/analyzer/hybrid"
	"github.com/driftdetect/deadwood/pkg/analyzer/reach"
	"github.com/driftdetect/deadwood/pkg/analyzer/resources"
	"github.com/driftdetect/deadwood/pkg/baseline"
	"github.com/driftdetect/deadwood/pkg/config"
	"github.com/driftdetect/deadwood/pkg/coverage"
	"github.com/driftdetect/deadwood/pkg/graph"
	"github.com/driftdetect/deadwood/pkg/models"
	"github.com/driftdetect/deadwood/pkg/parser"
	"github.com/driftdetect/deadwood/pkg/parser/androidxml"
	"github.com/driftdetect/deadwood/pkg/shrinker"
)

// Options configures one analysis run.
type Options struct {
	Root string
	Cfg  *config.Config

	MinConfidence      models.Confidence
	RuntimeOnly        bool
	IncludeRuntimeDead bool
	DetectCycles       bool
	UnusedParams       bool
	UnusedResources    bool
	Deep               bool

	// DetectCodes, when non-empty, selects exactly these detector codes
	// (--detect DC001,DC002) for the detector pass, ignoring the config
	// toggles and Deep. The resource and cycle passes do not read it: they
	// run on UnusedResources, DetectCycles or Deep, and resources also on
	// the config toggle.
	DetectCodes []string

	CoverageFiles []string
	ShrinkerUsage string
	BaselinePath  string

	Incremental bool
	CachePath   string

	OnProgress func()
	// Warn receives non-fatal diagnostics (skipped files, dropped
	// overlays).
	Warn func(format string, args ...any)
}

// Outcome is the result of a run.
type Outcome struct {
	Findings []models.Finding
	Summary  models.Summary
	Graph    *graph.Graph
	Files    []scanner.File
}

func (o *Options) warn(format string, args ...any) {
	if o.Warn != nil {
		o.Warn(format, args...)
	}
}

// Run executes the pipeline. Cancellation is checked at every phase
// boundary; a canceled run returns ctx.Err with partial results discarded.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	cfg := opts.Cfg
	summary := models.NewSummary()

	// Phase 1: discovery.
	files, err := scanner.New(cfg.Exclude).Scan(opts.Root, cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sourcePaths []string
	for _, f := range files {
		if f.IsSource() {
			sourcePaths = append(sourcePaths, f.Path)
		}
	}
	summary.FilesAnalyzed = len(sourcePaths)

	// Phase 2: parallel parsing, through the incremental cache when on.
	parseCache, err := cache.Open(opts.CachePath, opts.Incremental)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	results, procErrs := fileproc.MapFiles(ctx, sourcePaths, func(psr *parser.Parser, path string) (*graph.FileResult, error) {
		return parseOne(psr, path, parseCache)
	}, opts.OnProgress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if procErrs != nil {
		for _, pe := range procErrs.Errors {
			opts.warn("skipping %s: %v", pe.Path, pe.Err)
		}
	}

	// Phase 3: registry + graph (single writer).
	graph.SortFileResults(results)
	builder := graph.NewBuilder()
	for _, fr := range results {
		for _, line := range fr.ErrorLines {
			summary.ParseErrors++
			opts.warn("%s:%d: syntax error, using partial parse", fr.Path, line)
		}
		builder.AddFile(fr)
	}
	g := builder.Build()
	summary.Declarations = g.Len()
	summary.References = g.EdgeCount()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: XML.
	xmlOut := parseXML(ctx, files, cfg, opts)

	// Phase 5: seeding + reachability.
	seeds := entrypoints.Seed(g, xmlOut.classRefs, entrypoints.Options{
		EntryPoints:          cfg.EntryPoints,
		RetainPatterns:       cfg.RetainPatterns,
		ComponentPatterns:    cfg.Android.ComponentPatterns,
		AutoRetainComponents: cfg.Android.AutoRetainComponents,
		ManifestPackage:      xmlOut.manifestPackage,
	})
	reachable := reach.Analyze(g, seeds)
	summary.Reachable = int(reachable.Count())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 6: detectors over the now-immutable graph.
	dctx := &detect.Context{
		Graph:             g,
		Reach:             reachable,
		SourceFiles:       sourcePaths,
		ComponentPatterns: cfg.Android.ComponentPatterns,
	}
	raw := runDetectors(ctx, dctx, enabledCodes(cfg, opts))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 7: resources.
	if opts.UnusedResources || opts.Deep || cfg.Detection.UnusedResources {
		sources := make(map[string][]byte, len(sourcePaths))
		for _, path := range sourcePaths {
			sources[path] = dctx.Source(path)
		}
		resourceAnalysis := resources.Analyze(xmlOut.resources, xmlOut.resourceRefs, sources)
		raw = append(raw, resourceAnalysis.Findings()...)
	}

	// Phase 8: zombie cycles.
	if opts.DetectCycles || opts.Deep {
		found := cycles.Find(g, reachable)
		summary.ZombieCycles = len(found)
		raw = append(raw, cycles.Findings(found)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 9: overlays and aggregation.
	overlay := loadOverlay(opts)
	if opts.IncludeRuntimeDead {
		raw = append(raw, overlay.RuntimeDead(g, reachable.Reachable)...)
	}

	var bl *baseline.Baseline
	if opts.BaselinePath != "" {
		bl, err = baseline.Load(opts.BaselinePath)
		if err != nil {
			return nil, fmt.Errorf("load baseline: %w", err)
		}
	}

	agg := aggregate.Run(raw, g, overlay, aggregate.Options{
		MinConfidence: opts.MinConfidence,
		RuntimeOnly:   opts.RuntimeOnly,
		Baseline:      bl,
	}, summary)

	return &Outcome{
		Findings: agg.Findings,
		Summary:  agg.Summary,
		Graph:    g,
		Files:    files,
	}, nil
}

// parseOne consults the cache before parsing.
func parseOne(psr *parser.Parser, path string, parseCache *cache.Cache) (*graph.FileResult, error) {
	info, err := os.Stat(path)
	var hash string
	var mtime time.Time
	if err == nil {
		mtime = info.ModTime()
		if h, hashErr := cache.HashFile(path); hashErr == nil {
			hash = h
			if cached, ok := parseCache.Get(path, hash, mtime); ok {
				return cached, nil
			}
		}
	}
	result, err := psr.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if hash != "" {
		_ = parseCache.Put(path, hash, mtime, result)
	}
	return result, nil
}

type xmlOutput struct {
	manifestPackage string
	classRefs       []androidxml.ClassRef
	resources       []androidxml.Resource
	resourceRefs    []androidxml.ResourceRef
}

// parseXML runs the XML dialect parsers over discovered XML files.
func parseXML(ctx context.Context, files []scanner.File, cfg *config.Config, opts Options) *xmlOutput {
	out := &xmlOutput{}

	var paths []string
	kinds := make(map[string]scanner.FileKind)
	for _, f := range files {
		switch f.Kind {
		case scanner.KindManifestXML:
			if !cfg.Android.ParseManifest {
				continue
			}
		case scanner.KindLayoutXML, scanner.KindNavigationXML, scanner.KindMenuXML:
			if !cfg.Android.ParseLayouts {
				continue
			}
		case scanner.KindValuesXML, scanner.KindOtherXML:
		default:
			continue
		}
		paths = append(paths, f.Path)
		kinds[f.Path] = f.Kind
	}

	results, errs := fileproc.ForEachFile(ctx, paths, func(path string) (*androidxml.Result, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		switch kinds[path] {
		case scanner.KindManifestXML:
			return androidxml.ParseManifest(path, content), nil
		case scanner.KindValuesXML:
			return androidxml.ParseValues(path, content), nil
		default:
			return androidxml.ParseLayout(path, content), nil
		}
	}, nil)
	if errs != nil {
		for _, pe := range errs.Errors {
			opts.warn("skipping %s: %v", pe.Path, pe.Err)
		}
	}

	for _, r := range results {
		if r.Package != "" {
			out.manifestPackage = r.Package
		}
		out.classRefs = append(out.classRefs, r.ClassRefs...)
		for _, ident := range r.Identifiers {
			out.classRefs = append(out.classRefs, androidxml.ClassRef{Name: ident.Name, Line: ident.Line})
		}
		out.resources = append(out.resources, r.Resources...)
		out.resourceRefs = append(out.resourceRefs, r.ResourceRefs...)
	}
	return out
}

// enabledCodes maps config toggles and flags onto detector codes. An
// explicit --detect list wins over everything.
func enabledCodes(cfg *config.Config, opts Options) map[models.IssueCode]bool {
	if len(opts.DetectCodes) > 0 {
		out := make(map[models.IssueCode]bool, len(opts.DetectCodes))
		for _, code := range opts.DetectCodes {
			out[models.IssueCode(code)] = true
		}
		return out
	}
	d := cfg.Detection
	return map[models.IssueCode]bool{
		models.CodeUnreferenced:      d.UnusedClass || opts.Deep,
		models.CodeWriteOnly:         d.WriteOnly || opts.Deep,
		models.CodeUnusedParameter:   d.UnusedParam || opts.UnusedParams || opts.Deep,
		models.CodeUnusedEnumCase:    d.UnusedEnumCase || opts.Deep,
		models.CodeUnusedSealed:      d.SealedVariant || opts.Deep,
		models.CodeRedundantOverride: d.RedundantOverride || opts.Deep,
		models.CodeUnusedIntentExtra: d.IntentExtra || opts.Deep,
	}
}

// runDetectors executes the enabled detectors one after another; each is
// independent over the read-only graph.
func runDetectors(ctx context.Context, dctx *detect.Context, enabled map[models.IssueCode]bool) []models.Finding {
	var all []models.Finding
	for _, d := range detect.All(enabled) {
		if ctx.Err() != nil {
			return all
		}
		all = append(all, d.Detect(dctx)...)
	}
	return all
}

// loadOverlay reads coverage and shrinker files; malformed overlays are
// dropped with a warning, never fatal.
func loadOverlay(opts Options) *hybrid.Overlay {
	overlay := &hybrid.Overlay{}
	for _, path := range opts.CoverageFiles {
		data, err := coverage.ParseFile(path)
		if err != nil {
			opts.warn("dropping coverage overlay %s: %v", path, err)
			continue
		}
		if overlay.Coverage == nil {
			overlay.Coverage = coverage.NewData()
		}
		overlay.Coverage.Merge(data)
	}
	if opts.ShrinkerUsage != "" {
		usage, err := shrinker.ParseFile(opts.ShrinkerUsage)
		if err != nil {
			opts.warn("dropping shrinker overlay %s: %v", opts.ShrinkerUsage, err)
		} else {
			overlay.Shrinker = usage
		}
	}
	return overlay
}

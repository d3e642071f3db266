package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/driftdetect/deadwood/pkg/config"
	"github.com/driftdetect/deadwood/pkg/models"
)

func testContext(t *testing.T, args map[string]string, bools map[string]bool) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("format", "terminal", "")
	set.String("min-confidence", "low", "")
	set.String("detect", "", "")
	set.String("proguard-usage", "", "")
	set.Var(cli.NewStringSlice(), "coverage", "")
	set.Var(cli.NewStringSlice(), "target", "")
	set.Var(cli.NewStringSlice(), "exclude", "")
	set.Var(cli.NewStringSlice(), "retain", "")
	set.String("baseline", "", "")
	set.Bool("runtime-only", false, "")
	set.Bool("include-runtime-dead", false, "")
	set.Bool("detect-cycles", false, "")
	set.Bool("unused-params", false, "")
	set.Bool("unused-resources", false, "")
	set.Bool("deep", false, "")
	set.Bool("incremental", false, "")
	set.Bool("interactive", false, "")
	set.Bool("delete", false, "")
	set.Bool("watch", false, "")
	set.Bool("quiet", true, "")
	for name, v := range args {
		require.NoError(t, set.Set(name, v))
	}
	for name, v := range bools {
		if v {
			require.NoError(t, set.Set(name, "true"))
		}
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestValidateFlagsRejectsBadFormat(t *testing.T) {
	c := testContext(t, map[string]string{"format": "csv"}, nil)
	assert.Error(t, validateFlags(c))
}

func TestValidateFlagsRejectsBadConfidence(t *testing.T) {
	c := testContext(t, map[string]string{"min-confidence": "sure"}, nil)
	assert.Error(t, validateFlags(c))
}

func TestValidateFlagsRuntimeOnlyNeedsOverlay(t *testing.T) {
	c := testContext(t, nil, map[string]bool{"runtime-only": true})
	assert.Error(t, validateFlags(c))

	c = testContext(t, map[string]string{"coverage": "cov.xml"}, map[string]bool{"runtime-only": true})
	assert.NoError(t, validateFlags(c))
}

func TestValidateFlagsInteractiveNeedsDelete(t *testing.T) {
	c := testContext(t, nil, map[string]bool{"interactive": true})
	assert.Error(t, validateFlags(c))

	c = testContext(t, nil, map[string]bool{"interactive": true, "delete": true})
	assert.NoError(t, validateFlags(c))
}

func TestValidateFlagsWatchExcludesDelete(t *testing.T) {
	c := testContext(t, nil, map[string]bool{"watch": true, "delete": true})
	assert.Error(t, validateFlags(c))
}

func TestBuildOptionsDetectList(t *testing.T) {
	c := testContext(t, map[string]string{"detect": "dc001, DC011,DC012"}, nil)
	opts := buildOptions(".", config.Default(), c)
	assert.Equal(t, []string{"DC001", "DC011", "DC012"}, opts.DetectCodes)
	assert.True(t, opts.UnusedResources)
	assert.True(t, opts.DetectCycles)
}

func TestMergeFlagsAppendsPatterns(t *testing.T) {
	cfg := config.Default()
	base := len(cfg.Exclude)
	c := testContext(t, map[string]string{"exclude": "**/test/**", "retain": "*Presenter"}, nil)
	mergeFlags(cfg, c)
	assert.Len(t, cfg.Exclude, base+1)
	assert.Contains(t, cfg.RetainPatterns, "*Presenter")
}

func TestRelativized(t *testing.T) {
	findings := []models.Finding{{File: "/project/app/src/A.kt"}, {File: "/elsewhere/B.kt"}}
	out := relativized("/project", findings)
	assert.Equal(t, "app/src/A.kt", out[0].File)
	assert.Equal(t, "/elsewhere/B.kt", out[1].File)
	// originals untouched
	assert.Equal(t, "/project/app/src/A.kt", findings[0].File)
}

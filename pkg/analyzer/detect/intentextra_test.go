package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/graph"
)

func intentCtx(t *testing.T, files map[string]string) *Context {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	ctx := ctxFor(graph.New())
	ctx.SourceFiles = paths
	return ctx
}

func TestUnusedIntentExtra(t *testing.T) {
	ctx := intentCtx(t, map[string]string{
		"SenderActivity.kt": `fun send() {
    intent.putExtra("USER_ID", 1)
    intent.putExtra("LEGACY", true)
    startActivity(intent)
}
`,
		"ReceiverActivity.kt": `fun receive() {
    val id = intent.getIntExtra("USER_ID", -1)
}
`,
	})

	findings := (UnusedIntentExtra{}).Detect(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "LEGACY", findings[0].Name)
	assert.Contains(t, findings[0].Message, "LEGACY")
}

func TestIntentExtraHasExtraCountsAsRead(t *testing.T) {
	ctx := intentCtx(t, map[string]string{
		"A.kt": `intent.putExtra("FLAG", true)`,
		"B.kt": `if (intent.hasExtra("FLAG")) {}`,
	})
	assert.Empty(t, (UnusedIntentExtra{}).Detect(ctx))
}

func TestIntentExtraSystemKeysSkipped(t *testing.T) {
	ctx := intentCtx(t, map[string]string{
		"A.kt": `intent.putExtra("android.intent.extra.TEXT", body)
intent.putExtra("app_package", pkg)`,
	})
	assert.Empty(t, (UnusedIntentExtra{}).Detect(ctx))
}

func TestIntentExtraTestFilesIgnored(t *testing.T) {
	ctx := intentCtx(t, map[string]string{
		"src/test/FakeSender.kt": `intent.putExtra("ONLY_IN_TEST", 1)`,
	})
	assert.Empty(t, (UnusedIntentExtra{}).Detect(ctx))
}

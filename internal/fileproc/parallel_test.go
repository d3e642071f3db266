package fileproc

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachFileCollectsResults(t *testing.T) {
	files := []string{"c", "a", "b"}
	results, errs := ForEachFile(context.Background(), files, func(path string) (string, error) {
		return path + "!", nil
	}, nil)
	require.Nil(t, errs)
	sort.Strings(results)
	assert.Equal(t, []string{"a!", "b!", "c!"}, results)
}

func TestForEachFileCollectsErrorsWithoutStopping(t *testing.T) {
	files := []string{"ok1", "bad", "ok2"}
	results, errs := ForEachFile(context.Background(), files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	}, nil)
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	assert.Len(t, errs.Errors, 1)
	assert.Equal(t, "bad", errs.Errors[0].Path)
	assert.Len(t, results, 2)
}

func TestProgressCallbackFiresPerFile(t *testing.T) {
	var ticks atomic.Int64
	files := []string{"a", "b", "c", "d"}
	_, _ = ForEachFile(context.Background(), files, func(path string) (int, error) {
		return 0, nil
	}, func() { ticks.Add(1) })
	assert.Equal(t, int64(4), ticks.Load())
}

func TestCanceledContextRecordsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := ForEachFile(ctx, []string{"a", "b"}, func(path string) (int, error) {
		return 1, nil
	}, nil)
	assert.Empty(t, results)
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
}

func TestEmptyInput(t *testing.T) {
	results, errs := ForEachFile(context.Background(), nil, func(path string) (int, error) {
		return 0, nil
	}, nil)
	assert.Nil(t, results)
	assert.Nil(t, errs)
}

func TestProcessingErrorsMessage(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.Equal(t, "no errors", errs.Error())
	errs.Add("a.kt", errors.New("x"))
	assert.Contains(t, errs.Error(), "a.kt")
	errs.Add("b.kt", errors.New("y"))
	assert.Contains(t, errs.Error(), "2 files failed")
}

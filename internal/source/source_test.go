package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/limits"
	"github.com/rohankatakam/csmell/internal/models"
)

func TestReadAll(t *testing.T) {
	src, err := ReadAll(strings.NewReader("x = 1\n"), "inline.py", 0)
	require.NoError(t, err)
	assert.Equal(t, Source{Name: "inline.py", Text: "x = 1\n"}, src)
}

func TestReadAll_TooLarge(t *testing.T) {
	_, err := ReadAll(strings.NewReader("0123456789"), "big.py", 4)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeResourceLimit))

	var exceeded *limits.ExceededError
	require.True(t, stderrors.As(err, &exceeded))
	assert.Equal(t, limits.ResourceSourceBytes, exceeded.Resource)

	// exactly at the bound is fine
	_, err = ReadAll(strings.NewReader("0123"), "ok.py", 4)
	assert.NoError(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.py")
	require.NoError(t, os.WriteFile(path, []byte("def index(request):\n    pass\n"), 0644))

	src, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, path, src.Name)
	assert.Contains(t, src.Text, "def index")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.py"), 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFileSystem))
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"b.py",
		"a.py",
		"notes.txt",
		"pkg/c.py",
		"pkg/stubs.pyi",
		".venv/lib/site.py",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("pass\n"), 0644))
	}
	single := filepath.Join(root, "notes.txt")

	got, err := Expand([]string{root, single, StdinName})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "b.py"),
		filepath.Join(root, "pkg", "c.py"),
		filepath.Join(root, "pkg", "stubs.pyi"),
		single,
		StdinName,
	}, got)

	_, err = Expand([]string{filepath.Join(root, "nope")})
	assert.Error(t, err)
}

func TestIsPython(t *testing.T) {
	assert.True(t, IsPython("app/views.py"))
	assert.True(t, IsPython("Types.PYI"))
	assert.False(t, IsPython("main.go"))
	assert.False(t, IsPython("py"))
}

func TestAnalyzeAll_KeepsOrder(t *testing.T) {
	a, err := analyzer.New(analyzer.DefaultConfig())
	require.NoError(t, err)

	sources := []Source{
		{Name: "loops.py", Text: "for a in b:\n    for c in d:\n        pass\n"},
		{Name: "broken.py", Text: "def broken(:\n"},
		{Name: "empty.py", Text: ""},
		{Name: "single.py", Text: "cls._instance = None\n"},
	}

	results, err := AnalyzeAll(context.Background(), a, sources, 2)
	require.NoError(t, err)
	require.Len(t, results, len(sources))

	for i, r := range results {
		assert.Equal(t, sources[i].Name, r.Path)
	}
	assert.Len(t, results[0].Report.CodeSmells, 1)
	assert.True(t, results[1].Failed())
	assert.True(t, errors.IsType(results[1].Err, errors.ErrorTypeParse))
	assert.True(t, results[2].Report.Empty())
	assert.Len(t, results[3].Report.AntiPatterns, 1)
}

type countingAnalyzer struct {
	running atomic.Int32
	peak    atomic.Int32
}

func (c *countingAnalyzer) Analyze(string) (*models.Report, error) {
	n := c.running.Add(1)
	defer c.running.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return models.NewReport(), nil
}

func TestAnalyzeAll_WorkerBound(t *testing.T) {
	sources := make([]Source, 20)
	for i := range sources {
		sources[i] = Source{Name: fmt.Sprintf("f%d.py", i)}
	}

	a := &countingAnalyzer{}
	results, err := AnalyzeAll(context.Background(), a, sources, 3)
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.LessOrEqual(t, a.peak.Load(), int32(3))
}

func TestAnalyzeAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AnalyzeAll(ctx, &countingAnalyzer{}, []Source{{Name: "a.py"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

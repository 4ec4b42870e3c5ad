package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/limits"
	"github.com/rohankatakam/csmell/internal/models"
)

// StdinName is the path that selects standard input
const StdinName = "-"

// Source is one named piece of program text held in memory
type Source struct {
	Name string
	Text string
}

// Analyzer is the part of analyzer.Analyzer the batch runner needs
type Analyzer interface {
	Analyze(source string) (*models.Report, error)
}

// ReadAll reads r into memory, failing once more than maxBytes are read.
// maxBytes <= 0 disables the bound.
func ReadAll(r io.Reader, name string, maxBytes int64) (Source, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, errors.FileSystemErrorf(err, "failed to read %s", name)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		exceeded := &limits.ExceededError{Resource: limits.ResourceSourceBytes, Limit: int(maxBytes)}
		return Source{}, errors.ResourceLimitError(exceeded, fmt.Sprintf("failed to read %s", name))
	}
	return Source{Name: name, Text: string(data)}, nil
}

// ReadFile reads one file, or standard input when path is "-"
func ReadFile(path string, maxBytes int64) (Source, error) {
	if path == StdinName {
		return ReadAll(os.Stdin, "<stdin>", maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return Source{}, errors.FileSystemErrorf(err, "failed to open %s", path)
	}
	defer f.Close()
	return ReadAll(f, path, maxBytes)
}

// Expand resolves the command line paths into files. Directories are walked
// for *.py files in lexical order; hidden directories are skipped.
func Expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if p == StdinName {
			files = append(files, p)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to stat %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsPython(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to walk %s", p)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// IsPython reports whether path names a Python source file
func IsPython(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// AnalyzeAll analyzes every source with at most workers running at once.
// Results keep the input order; an analysis error is recorded on its
// FileReport and does not stop the batch. Only context cancellation does.
func AnalyzeAll(ctx context.Context, a Analyzer, sources []Source, workers int) ([]models.FileReport, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]models.FileReport, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := a.Analyze(src.Text)
			results[i] = models.NewFileReport(src.Name, report, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

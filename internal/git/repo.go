package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rohankatakam/csmell/internal/source"
)

// DetectGitRepo checks if current directory is a git repository
// Uses git rev-parse to verify we're inside a working tree
func DetectGitRepo() error {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	return nil
}

// FindGitRoot returns the root directory of the git repository
// Uses git rev-parse --show-toplevel to find repo root
func FindGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// GetChangedFiles returns list of files changed in working directory
// Uses git diff to find modified files compared to HEAD. Paths are relative
// to the repository root.
func GetChangedFiles() ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", "--diff-filter=ACMR", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get changed files: %w", err)
	}
	return splitLines(output), nil
}

// ChangedSources loads the working tree version of every Python file that
// differs from HEAD. Sources are named by their path from the repository root.
func ChangedSources(maxBytes int64) ([]source.Source, error) {
	root, err := FindGitRoot()
	if err != nil {
		return nil, err
	}
	files, err := GetChangedFiles()
	if err != nil {
		return nil, err
	}

	var sources []source.Source
	for _, f := range files {
		if !source.IsPython(f) {
			continue
		}
		src, err := source.ReadFile(filepath.Join(root, f), maxBytes)
		if err != nil {
			return nil, err
		}
		src.Name = f
		sources = append(sources, src)
	}
	return sources, nil
}

func splitLines(output []byte) []string {
	files := strings.Split(strings.TrimSpace(string(output)), "\n")

	// Filter out empty strings
	var result []string
	for _, f := range files {
		if f != "" {
			result = append(result, f)
		}
	}
	return result
}

package git

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/rohankatakam/csmell/internal/source"
)

// GetStagedFiles returns list of files staged for commit
// Uses git diff --cached to detect files in staging area
func GetStagedFiles() ([]string, error) {
	cmd := exec.Command("git", "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}
	return splitLines(output), nil
}

// StagedSources loads the staged (index) version of every staged Python
// file, which is what a pre-commit hook has to judge. Working tree edits that
// are not staged are ignored.
func StagedSources(maxBytes int64) ([]source.Source, error) {
	root, err := FindGitRoot()
	if err != nil {
		return nil, err
	}
	files, err := GetStagedFiles()
	if err != nil {
		return nil, err
	}

	var sources []source.Source
	for _, f := range files {
		if !source.IsPython(f) {
			continue
		}

		cmd := exec.Command("git", "show", ":"+f)
		cmd.Dir = root
		output, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("failed to read staged %s: %w", f, err)
		}

		src, err := source.ReadAll(bytes.NewReader(output), f, maxBytes)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

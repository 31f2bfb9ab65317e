package main

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const schemaSuffix = ".ddb.yaml"

// DiscoverSchemas finds all *.ddb.yaml descriptor files under dir.
// It tries multiple strategies in order of efficiency:
// 1. git ls-files (fastest, works in git repos)
// 2. find command (medium, works on Unix systems)
// 3. Pure Go walk (slowest, always works)
func DiscoverSchemas(dir string) ([]string, error) {
	if files, err := discoverWithGitLsFiles(dir); err == nil && len(files) > 0 {
		return files, nil
	}

	if files, err := discoverWithFind(dir); err == nil && len(files) > 0 {
		return files, nil
	}

	return discoverWithWalk(dir)
}

// discoverWithGitLsFiles uses git's index, so ignored files are skipped.
func discoverWithGitLsFiles(dir string) ([]string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, err
	}

	// --cached --others --exclude-standard finds tracked and untracked files
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard", "--", "*"+schemaSuffix)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return parseAndAbsolutize(dir, output)
}

func discoverWithFind(dir string) ([]string, error) {
	if _, err := exec.LookPath("find"); err != nil {
		return nil, err
	}

	cmd := exec.Command("find", ".", "-name", "*"+schemaSuffix, "-type", "f")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return parseAndAbsolutize(dir, output)
}

func discoverWithWalk(dir string) ([]string, error) {
	var files []string

	// Directories to skip for performance
	skipDirs := map[string]bool{
		".git":         true,
		"node_modules": true,
		"vendor":       true,
		".ddb":         true,
		"__pycache__":  true,
		".venv":        true,
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), schemaSuffix) {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			files = append(files, abs)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// parseAndAbsolutize turns command output relative to dir into sorted
// absolute paths.
func parseAndAbsolutize(dir string, output []byte) ([]string, error) {
	var files []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasSuffix(line, schemaSuffix) {
			continue
		}
		path := filepath.Join(dir, line)
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		files = append(files, abs)
	}
	sort.Strings(files)
	return files, scanner.Err()
}

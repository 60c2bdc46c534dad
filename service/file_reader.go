package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/simscan-dev/simscan/domain"
)

// Directories that never hold consolidation candidates. Backup and old
// directories are deliberately absent: that is exactly where sibling
// copies live.
var junkDirs = map[string]struct{}{
	"__pycache__":   {},
	".git":          {},
	".svn":          {},
	".hg":           {},
	"node_modules":  {},
	".tox":          {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"venv":          {},
	".venv":         {},
}

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectSourceFiles expands the given paths into concrete files. Directories
// are walked (recursively when requested) and every regular file that passes
// the include/exclude patterns is collected.
func (f *FileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if matchesPatterns(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		collected, err := walkDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		files = append(files, collected...)
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// FileExists reports whether path names an existing regular file
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}

func walkDirectory(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}
		if path == root {
			return nil
		}

		if entry.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			if skipDirectory(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if matchesPatterns(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	return files, nil
}

func skipDirectory(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, junk := junkDirs[strings.ToLower(name)]; junk {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".egg-info")
}

// matchesPatterns applies exclude patterns first, then includes. Patterns
// match against both the base name and the slashed full path, so plain
// "*.py" and globstar "src/**/*.py" both work.
func matchesPatterns(path string, includePatterns, excludePatterns []string) bool {
	if matchAny(excludePatterns, path) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	return matchAny(includePatterns, path)
}

func matchAny(patterns []string, path string) bool {
	slashPath := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, slashPath); matched {
			return true
		}
	}
	return false
}

package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/analyzer"
)

// FactsLoader reads the facts document handed over by an external parser: a
// JSON array of per-file records carrying metadata plus the structural facts
// (functions, classes, imports, data-flow events) the engine operates on.
type FactsLoader struct {
	fileReader domain.FileReader
}

// NewFactsLoader creates a loader backed by the given file reader.
func NewFactsLoader(fileReader domain.FileReader) *FactsLoader {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &FactsLoader{fileReader: fileReader}
}

// Load parses the facts document at path into source files.
func (l *FactsLoader) Load(path string) ([]*domain.SourceFile, error) {
	data, err := l.fileReader.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return l.Parse(path, data)
}

// Parse decodes a facts document already held in memory. The origin path is
// only used for error reporting.
func (l *FactsLoader) Parse(origin string, data []byte) ([]*domain.SourceFile, error) {
	var files []*domain.SourceFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, domain.NewParseError(origin, err)
	}

	for i, file := range files {
		if file == nil {
			return nil, domain.NewParseError(origin, fmt.Errorf("record %d is null", i))
		}
		if file.FilePath == "" {
			return nil, domain.NewParseError(origin, fmt.Errorf("record %d has no file_path", i))
		}
	}

	l.fillMissingMetadata(files)
	return files, nil
}

// LoadFromPaths builds minimal source files from plain filesystem paths. No
// structural facts are available in this mode; the affinity engine falls back
// to its neutral sub-scores for structure and DNA.
func (l *FactsLoader) LoadFromPaths(paths []string) []*domain.SourceFile {
	files := make([]*domain.SourceFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, &domain.SourceFile{FilePath: path})
	}
	l.fillMissingMetadata(files)
	return files
}

// fillMissingMetadata stats files on disk to fill in size, modification time,
// and content hash when the facts record leaves them out. Files that cannot
// be read keep their record as-is.
func (l *FactsLoader) fillMissingMetadata(files []*domain.SourceFile) {
	for _, file := range files {
		if len(file.Content) > 0 {
			if file.Size == 0 {
				file.Size = int64(len(file.Content))
			}
			if file.ContentHash == "" {
				file.ContentHash = analyzer.ContentHash(file.Content)
			}
			continue
		}

		if file.Size == 0 || file.ModifiedTime.IsZero() {
			if info, err := os.Stat(file.FilePath); err == nil {
				if file.Size == 0 {
					file.Size = info.Size()
				}
				if file.ModifiedTime.IsZero() {
					file.ModifiedTime = info.ModTime()
				}
			}
		}

		if file.ContentHash == "" {
			if content, err := l.fileReader.ReadFile(file.FilePath); err == nil {
				file.ContentHash = analyzer.ContentHash(content)
			}
		}
	}
}

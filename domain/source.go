package domain

import (
	"path/filepath"
	"time"
)

// AccessKind classifies a data-flow event as a read or a write.
type AccessKind string

const (
	AccessRead  AccessKind = "READ"
	AccessWrite AccessKind = "WRITE"
)

// DataFlowEvent is a single variable access recorded by an external parser.
type DataFlowEvent struct {
	Variable string     `json:"variable" yaml:"variable"`
	Line     int        `json:"line" yaml:"line"`
	Access   AccessKind `json:"access" yaml:"access"`
	Scope    string     `json:"scope" yaml:"scope"`
}

// FunctionInfo describes one function found by an external parser.
type FunctionInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Line       int      `json:"line" yaml:"line"`
	EndLine    int      `json:"end_line" yaml:"end_line"`
	Params     []string `json:"params,omitempty" yaml:"params,omitempty"`
	Decorators []string `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Docstring  string   `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

// ClassInfo describes one class found by an external parser.
type ClassInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Line    int      `json:"line" yaml:"line"`
	EndLine int      `json:"end_line" yaml:"end_line"`
	Bases   []string `json:"bases,omitempty" yaml:"bases,omitempty"`
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// ImportInfo describes one import statement found by an external parser.
type ImportInfo struct {
	Module       string   `json:"module" yaml:"module"`
	Names        []string `json:"names,omitempty" yaml:"names,omitempty"`
	IsFromImport bool     `json:"is_from_import" yaml:"is_from_import"`
}

// SourceFile is the per-file handoff from the discovery and parsing stages:
// file metadata plus the structural facts the engine operates on. The engine
// is agnostic to which language produced the facts.
type SourceFile struct {
	FilePath     string    `json:"file_path" yaml:"file_path"`
	Size         int64     `json:"size" yaml:"size"`
	ContentHash  string    `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	ModifiedTime time.Time `json:"modified_time,omitempty" yaml:"modified_time,omitempty"`

	// Content optionally embeds the raw file text for hosts that do not share
	// a filesystem with the engine. When empty, content is read from FilePath.
	Content []byte `json:"content,omitempty" yaml:"content,omitempty"`

	Functions []FunctionInfo  `json:"functions,omitempty" yaml:"functions,omitempty"`
	Classes   []ClassInfo     `json:"classes,omitempty" yaml:"classes,omitempty"`
	Imports   []ImportInfo    `json:"imports,omitempty" yaml:"imports,omitempty"`
	DataFlows []DataFlowEvent `json:"data_flows,omitempty" yaml:"data_flows,omitempty"`
}

// Directory returns the directory portion of the file path.
func (sf *SourceFile) Directory() string {
	return filepath.Dir(sf.FilePath)
}

// BaseName returns the base filename used for sibling grouping.
func (sf *SourceFile) BaseName() string {
	return filepath.Base(sf.FilePath)
}

// HasStructuralData reports whether any parser-produced facts are present.
func (sf *SourceFile) HasStructuralData() bool {
	return len(sf.Functions) > 0 || len(sf.Classes) > 0 || len(sf.Imports) > 0
}

// FunctionNames returns the declared function names in source order.
func (sf *SourceFile) FunctionNames() []string {
	names := make([]string, 0, len(sf.Functions))
	for _, fn := range sf.Functions {
		names = append(names, fn.Name)
	}
	return names
}

// ClassNames returns the declared class names in source order.
func (sf *SourceFile) ClassNames() []string {
	names := make([]string, 0, len(sf.Classes))
	for _, cls := range sf.Classes {
		names = append(names, cls.Name)
	}
	return names
}

// ImportModules returns the imported module names in source order.
func (sf *SourceFile) ImportModules() []string {
	modules := make([]string, 0, len(sf.Imports))
	for _, imp := range sf.Imports {
		modules = append(modules, imp.Module)
	}
	return modules
}

// Warning records a non-fatal, per-unit failure or degradation. Warnings are
// surfaced in aggregate reports instead of aborting the batch.
type Warning struct {
	FilePath  string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Operation string `json:"operation" yaml:"operation"`
	Message   string `json:"message" yaml:"message"`
}

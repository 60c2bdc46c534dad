package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFile_PathHelpers(t *testing.T) {
	file := &SourceFile{FilePath: "pkg/sub/util.py"}

	assert.Equal(t, "pkg/sub", file.Directory())
	assert.Equal(t, "util.py", file.BaseName())
}

func TestSourceFile_HasStructuralData(t *testing.T) {
	assert.False(t, (&SourceFile{}).HasStructuralData())
	assert.True(t, (&SourceFile{Functions: []FunctionInfo{{Name: "f"}}}).HasStructuralData())
	assert.True(t, (&SourceFile{Imports: []ImportInfo{{Module: "os"}}}).HasStructuralData())
	assert.False(t, (&SourceFile{DataFlows: []DataFlowEvent{{Variable: "x"}}}).HasStructuralData(),
		"Data-flow events alone are not structural symbols")
}

func TestSourceFile_NameAccessors(t *testing.T) {
	file := &SourceFile{
		Functions: []FunctionInfo{{Name: "load"}, {Name: "save"}},
		Classes:   []ClassInfo{{Name: "Store"}},
		Imports:   []ImportInfo{{Module: "os"}, {Module: "json"}},
	}

	assert.Equal(t, []string{"load", "save"}, file.FunctionNames())
	assert.Equal(t, []string{"Store"}, file.ClassNames())
	assert.Equal(t, []string{"os", "json"}, file.ImportModules())
}

func TestDomainError(t *testing.T) {
	base := NewValidationError("bad input")
	assert.Contains(t, base.Error(), "INVALID_INPUT")
	assert.Contains(t, base.Error(), "bad input")

	wrapped := NewFileNotFoundError("missing.py", assert.AnError)
	assert.Contains(t, wrapped.Error(), "missing.py")
	assert.ErrorIs(t, wrapped, assert.AnError)
}

package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFactsDocument = `[
  {
    "file_path": "src/util.py",
    "content": "ZGVmIGYoKToKICAgIHBhc3MK",
    "functions": [
      {"name": "f", "line": 1, "end_line": 2, "params": ["x"]}
    ],
    "imports": [{"module": "os", "is_from_import": false}],
    "data_flows": [
      {"variable": "x", "line": 2, "access": "WRITE", "scope": "f"}
    ]
  },
  {
    "file_path": "lib/util.py"
  }
]`

func TestFactsLoader_Parse(t *testing.T) {
	loader := NewFactsLoader(nil)

	files, err := loader.Parse("facts.json", []byte(sampleFactsDocument))
	require.NoError(t, err)
	require.Len(t, files, 2)

	first := files[0]
	assert.Equal(t, "src/util.py", first.FilePath)
	require.Len(t, first.Functions, 1)
	assert.Equal(t, "f", first.Functions[0].Name)
	assert.Equal(t, []string{"x"}, first.Functions[0].Params)
	assert.Equal(t, []string{"os"}, first.ImportModules())
	require.Len(t, first.DataFlows, 1)

	assert.NotEmpty(t, first.ContentHash, "Inline content is hashed during load")
	assert.Equal(t, int64(len(first.Content)), first.Size)
}

func TestFactsLoader_ParseRejectsNullRecord(t *testing.T) {
	loader := NewFactsLoader(nil)

	_, err := loader.Parse("facts.json", []byte(`[{"file_path": "a.py"}, null]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestFactsLoader_ParseRejectsMissingFilePath(t *testing.T) {
	loader := NewFactsLoader(nil)

	_, err := loader.Parse("facts.json", []byte(`[{"size": 10}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path")
}

func TestFactsLoader_ParseRejectsMalformedJSON(t *testing.T) {
	loader := NewFactsLoader(nil)

	_, err := loader.Parse("facts.json", []byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = loader.Parse("facts.json", []byte(`[{"file_path":`))
	assert.Error(t, err)
}

func TestFactsLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleFactsDocument), 0o644))

	loader := NewFactsLoader(nil)
	files, err := loader.Load(path)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFactsLoader_LoadMissingFile(t *testing.T) {
	loader := NewFactsLoader(nil)

	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE_NOT_FOUND")
}

func TestFactsLoader_LoadFromPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	loader := NewFactsLoader(nil)
	files := loader.LoadFromPaths([]string{path, "missing.py"})
	require.Len(t, files, 2)

	assert.Equal(t, path, files[0].FilePath)
	assert.Equal(t, int64(6), files[0].Size, "Existing files are stat-ed for metadata")
	assert.NotEmpty(t, files[0].ContentHash)
	assert.False(t, files[0].HasStructuralData(), "Plain paths carry no structural facts")

	assert.Equal(t, "missing.py", files[1].FilePath)
	assert.Empty(t, files[1].ContentHash, "Unreadable files keep their record as-is")
}

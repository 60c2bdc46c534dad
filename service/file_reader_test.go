package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestCollectSourceFiles_Recursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":         "x = 1",
		"sub/b.py":     "y = 2",
		"sub/deep/c.go": "package c",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, true, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestCollectSourceFiles_NonRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":     "x = 1",
		"sub/b.py": "y = 2",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, false, nil, nil)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "a.py", filepath.Base(files[0]))
}

func TestCollectSourceFiles_IncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":       "x = 1",
		"b.go":       "package b",
		"sub/c.py":   "z = 3",
		"sub/d.json": "{}",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, true, []string{"*.py"}, nil)
	require.NoError(t, err)

	assert.Len(t, files, 2, "Base-name patterns match at any depth")
	for _, f := range files {
		assert.Equal(t, ".py", filepath.Ext(f))
	}
}

func TestCollectSourceFiles_GlobstarInclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.py":      "x = 1",
		"src/deep/b.py": "y = 2",
		"other/c.py":    "z = 3",
	})

	reader := NewFileReader()
	pattern := filepath.ToSlash(filepath.Join(root, "src", "**", "*.py"))
	files, err := reader.CollectSourceFiles([]string{root}, true, []string{pattern}, nil)
	require.NoError(t, err)

	assert.Len(t, files, 2)
}

func TestCollectSourceFiles_ExcludeWinsOverInclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.py": "x = 1",
		"skip.py": "y = 2",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, true, []string{"*.py"}, []string{"skip.py"})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "keep.py", filepath.Base(files[0]))
}

func TestCollectSourceFiles_SkipsJunkDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":                 "x = 1",
		"__pycache__/a.pyc":    "bytecode",
		".git/objects/ab/cdef": "blob",
		"node_modules/m/i.js":  "x",
		".hidden/b.py":         "y = 2",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, true, nil, nil)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "a.py", filepath.Base(files[0]))
}

func TestCollectSourceFiles_KeepsBackupDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/util.py":    "x = 1",
		"backup/util.py": "x = 1",
		"old/util.py":    "x = 1",
	})

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{root}, true, nil, nil)
	require.NoError(t, err)

	assert.Len(t, files, 3,
		"Backup and archive directories are exactly where sibling copies live, so they are walked")
}

func TestCollectSourceFiles_ExplicitFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"single.py": "x = 1"})
	path := filepath.Join(root, "single.py")

	reader := NewFileReader()
	files, err := reader.CollectSourceFiles([]string{path}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestCollectSourceFiles_MissingPath(t *testing.T) {
	reader := NewFileReader()
	_, err := reader.CollectSourceFiles([]string{filepath.Join(t.TempDir(), "nope")}, true, nil, nil)
	assert.Error(t, err)
}

func TestFileReader_ReadFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "content"})

	reader := NewFileReader()
	data, err := reader.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	_, err = reader.ReadFile(filepath.Join(root, "absent.txt"))
	assert.Error(t, err)
}

func TestFileReader_FileExists(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "content"})

	reader := NewFileReader()

	exists, err := reader.FileExists(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = reader.FileExists(filepath.Join(root, "absent.txt"))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = reader.FileExists(root)
	require.NoError(t, err)
	assert.False(t, exists, "Directories are not files")
}

func TestFileReader_ValidatePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "content"})

	reader := NewFileReader()
	assert.NoError(t, reader.ValidatePaths([]string{root, filepath.Join(root, "f.txt")}))
	assert.Error(t, reader.ValidatePaths([]string{filepath.Join(root, "absent")}))
}

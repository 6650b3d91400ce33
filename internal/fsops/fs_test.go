package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFS_Exists(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.WriteFile("/work/a.txt", []byte("a"), 0o644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: "/work/a.txt", want: true},
		{name: "existing directory", path: "/work", want: true},
		{name: "missing file", path: "/work/b.txt", want: false},
		{name: "missing parent", path: "/nowhere/b.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Exists(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAferoFS_Rename(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.WriteFile("/work/a.txt", []byte("content"), 0o644))

	require.NoError(t, fs.Rename("/work/a.txt", "/work/b.txt"))

	exists, err := fs.Exists("/work/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := fs.ReadFile("/work/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestAferoFS_RenameMissingSource(t *testing.T) {
	fs := NewMemFS()
	err := fs.Rename("/work/missing", "/work/b")
	assert.Error(t, err)
}

func TestRealFS_DanglingSymlinkExists(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing-target"), link))

	fs := NewRealFS()
	exists, err := fs.Exists(link)
	require.NoError(t, err)
	assert.True(t, exists, "a dangling symlink still occupies its name")

	info, err := fs.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink)
}

func TestRealFS_RenameDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "f"), []byte("x"), 0o644))

	fs := NewRealFS()
	require.NoError(t, fs.Rename(src, filepath.Join(dir, "dst")))

	data, err := os.ReadFile(filepath.Join(dir, "dst", "nested", "f"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestAferoFS_Walk(t *testing.T) {
	fs := NewMemFS()
	require.NoError(t, fs.WriteFile("/work/b.txt", nil, 0o644))
	require.NoError(t, fs.WriteFile("/work/a/c.txt", nil, 0o644))

	var seen []string
	err := fs.Walk("/work", func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		seen = append(seen, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work", "/work/a", "/work/a/c.txt", "/work/b.txt"}, seen)
}

func TestAferoFS_Backend(t *testing.T) {
	backend := afero.NewMemMapFs()
	assert.Same(t, backend, NewAferoFS(backend).Backend())
}

func TestTempName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantDir string
	}{
		{name: "relative path", path: "photos/a.jpg", wantDir: "photos"},
		{name: "bare name", path: "a.jpg", wantDir: "."},
		{name: "absolute path", path: "/work/photos/a.jpg", wantDir: "/work/photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TempName(tt.path)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDir, filepath.Dir(got))
			base := filepath.Base(got)
			assert.True(t, strings.HasPrefix(base, TempPrefix))
			assert.True(t, strings.HasSuffix(base, "-a.jpg"))
			assert.True(t, IsTempName(got))
		})
	}
}

func TestTempName_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name, err := TempName("dir/file")
		require.NoError(t, err)
		assert.False(t, seen[name], "duplicate temporary name %s", name)
		seen[name] = true
	}
}

func TestIsTempName(t *testing.T) {
	assert.False(t, IsTempName("a.txt"))
	assert.False(t, IsTempName(".edmv-"))
	assert.False(t, IsTempName("dir/.hidden"))
	assert.True(t, IsTempName("dir/.edmv-abcdefgh-a.txt"))
}

package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "creates new directory",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "mods") },
		},
		{
			name: "creates nested directories",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "pack", "instance", "mods") },
		},
		{
			name: "succeeds when directory already exists",
			path: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			require.NoError(t, EnsureDir(path))
			assert.DirExists(t, path)
		})
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mods")
	require.NoError(t, os.WriteFile(path, []byte("not a dir"), FileModeDefault))
	assert.Error(t, EnsureDir(path))
}

func TestEnsureFileDir(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "nested", "parent", "config.yaml")
	require.NoError(t, EnsureFileDir(filePath))
	assert.DirExists(t, filepath.Dir(filePath))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Dir(filePath))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0), info.Mode().Perm()&^os.FileMode(DirModeDefault))
	}
}

func TestSafeJoin(t *testing.T) {
	dir := filepath.Join("base", "mods")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain jar", input: "foo.jar", want: filepath.Join(dir, "foo.jar")},
		{name: "spaces and brackets", input: "Mod [1.12.2] v1.0.jar", want: filepath.Join(dir, "Mod [1.12.2] v1.0.jar")},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "traversal", input: "../evil.jar", wantErr: true},
		{name: "nested", input: "sub/foo.jar", wantErr: true},
		{name: "backslash", input: `sub\foo.jar`, wantErr: true},
		{name: "nul byte", input: "foo\x00.jar", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(dir, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsafeName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), dir)
}

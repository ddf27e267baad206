package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envConfig, envCache, envRoots, envLogLevel, envLogFile, envFollowSymlinks} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultFolders, cfg.Folders)
	require.Equal(t, "name", cfg.DefaultSort)
	require.Equal(t, "info", cfg.Log.Level)
	require.NotEmpty(t, cfg.CachePath)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
folders = ["Work"]
roots = ["/srv/share"]
cache_path = "/tmp/rseek.db"
follow_symlinks = true
default_sort = "size"

[log]
level = "debug"
file = "/tmp/rseek.log"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Work"}, cfg.Folders)
	require.Equal(t, []string{"/srv/share"}, cfg.Roots)
	require.Equal(t, "/tmp/rseek.db", cfg.CachePath)
	require.True(t, cfg.FollowSymlinks)
	require.Equal(t, "size", cfg.DefaultSort)
	require.Equal(t, LogConfig{Level: "debug", File: "/tmp/rseek.log"}, cfg.Log)
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("folders = [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_sort = "relevance"`), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "default_sort")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	rootA := filepath.Join(t.TempDir(), "a")
	rootB := filepath.Join(t.TempDir(), "b")
	t.Setenv(envRoots, rootA+string(os.PathListSeparator)+rootB)
	t.Setenv(envCache, "/tmp/override.db")
	t.Setenv(envLogLevel, "warn")
	t.Setenv(envFollowSymlinks, "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{rootA, rootB}, cfg.Roots)
	require.Equal(t, "/tmp/override.db", cfg.CachePath)
	require.Equal(t, "warn", cfg.Log.Level)
	require.True(t, cfg.FollowSymlinks)
}

func TestRootPaths(t *testing.T) {
	home := filepath.Join(string(filepath.Separator), "home", "ada")
	extra := filepath.Join(string(filepath.Separator), "mnt", "photos")
	cfg := &Config{
		Folders: []string{"Documents", " ", "Music", "Documents", extra},
		Roots:   []string{extra},
	}

	require.Equal(t, []string{
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Music"),
		extra,
	}, cfg.RootPaths(home))
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Roots = []string{filepath.Join(t.TempDir(), "x")}
	cfg.CachePath = "/tmp/idx.db"
	cfg.HideHidden = true

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Roots, loaded.Roots)
	require.True(t, loaded.HideHidden)
	require.Equal(t, "/tmp/idx.db", loaded.CachePath)
}

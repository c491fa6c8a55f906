package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// isolate runs the test from an empty repository root so no stray
// relq.yaml is discovered.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	chdir(t, root)
	return root
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, path, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "postgres", cfg.Engine)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "deleted_at", cfg.SoftDelete.Column)
	assert.False(t, cfg.SoftDelete.Enabled)
	assert.False(t, cfg.Pretty)
}

func TestLoadFile(t *testing.T) {
	root := isolate(t)
	writeFile(t, filepath.Join(root, "relq.yaml"), `
engine: sqlite
dsn: file:app.db
pretty: true
soft_delete:
  enabled: true
  column: removed_at
  tables: [users, posts]
`)

	cfg, path, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "relq.yaml"), path)
	assert.Equal(t, "sqlite", cfg.Engine)
	assert.Equal(t, "file:app.db", cfg.DSN)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, SoftDeleteConfig{Enabled: true, Column: "removed_at", Tables: []string{"users", "posts"}}, cfg.SoftDelete)
}

func TestLoadDiscoversUpwards(t *testing.T) {
	root := isolate(t)
	writeFile(t, filepath.Join(root, "relq.yml"), "engine: mysql\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, path, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Engine)

	want, _ := filepath.EvalSymlinks(filepath.Join(root, "relq.yml"))
	got, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, want, got)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	isolate(t)
	_, _, err := Load("/nonexistent/relq.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestPrecedence(t *testing.T) {
	root := isolate(t)
	writeFile(t, filepath.Join(root, "relq.yaml"), "engine: sqlite\ndsn: from-file\nlog_level: info\n")
	t.Setenv("RELQ_DSN", "from-env")
	t.Setenv("RELQ_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("engine", "", "")
	flags.String("dsn", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))

	cfg, _, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Engine, "file beats default")
	assert.Equal(t, "from-env", cfg.DSN, "env beats file")
	assert.Equal(t, "debug", cfg.LogLevel, "flag beats env")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Engine: "oracle", LogLevel: "info"}
	require.ErrorContains(t, cfg.Validate(), "invalid engine")

	cfg = &Config{Engine: "mysql", LogLevel: "loud"}
	require.ErrorContains(t, cfg.Validate(), "invalid log level")

	cfg = &Config{Engine: "mysql", LogLevel: "INFO"}
	require.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

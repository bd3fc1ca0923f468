package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("jwt:\n  secret: abc\n"), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 100, cfg.DB.SlowQueryMS)
	assert.Equal(t, ":5002", cfg.Server.Port)
	assert.False(t, cfg.Server.LegacyErrorStatus)
	assert.Equal(t, "media", cfg.Media.Dir)
	assert.Equal(t, "abc", cfg.JWT.Secret)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load("local", filepath.Join("..", "..", "config"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "gncitizen.db", cfg.DB.Path)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "gncitizen-api", cfg.OTel.ServiceName)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
		assert.Equal(t, "/custom/migrations", migrationsDir())
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		assert.Equal(t, "db/migrations", migrationsDir())
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	assert.Equal(t, defaultDSN, databaseDSN())

	t.Setenv("DB_DSN", "postgres://u:p@db/app")
	assert.Equal(t, "postgres://u:p@db/app", databaseDSN())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nMIGRATIONS_DIR=from_file\n"), 0o644))
	t.Chdir(tmp)

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("MIGRATIONS_DIR", "")
	require.NoError(t, os.Unsetenv("MIGRATIONS_DIR"))

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "from_file", os.Getenv("MIGRATIONS_DIR"))
}

func TestLoadEnvFiles_LocalWins(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_env_file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env.local"), []byte("DB_DSN=from_local\n"), 0o644))
	t.Chdir(tmp)

	t.Setenv("DB_DSN", "")
	require.NoError(t, os.Unsetenv("DB_DSN"))

	loadEnvFiles()

	assert.Equal(t, "from_local", os.Getenv("DB_DSN"))
}

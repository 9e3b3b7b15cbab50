package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFolder(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0644))
	return dir
}

func TestMustLoad(t *testing.T) {
	t.Run("loads both files", func(t *testing.T) {
		dir := writeConfigFolder(t, `
port: 8090
data_dir: /tmp/data
chat:
  persist_limit: 200
`, "admin_key: sekrit\n")

		cfg := MustLoad(dir)

		assert.Equal(t, 8090, cfg.Public.Port)
		assert.Equal(t, "/tmp/data", cfg.Public.DataDir)
		assert.Equal(t, 200, cfg.Public.Chat.PersistLimit)
		assert.Equal(t, "sekrit", cfg.AdminKey())
	})

	t.Run("applies defaults for unset values", func(t *testing.T) {
		dir := writeConfigFolder(t, "port: 8090\n", "admin_key: x\n")

		cfg := MustLoad(dir)

		assert.Equal(t, "data", cfg.Public.DataDir)
		assert.Equal(t, "uploads", cfg.Public.UploadsDir)
		assert.Equal(t, int64(50<<20), cfg.Public.MaxUploadBytes)
		assert.Equal(t, 500, cfg.Public.Chat.PersistLimit)
		assert.Equal(t, 50, cfg.Public.Chat.ReplayLimit)
		assert.Equal(t, 100, cfg.Public.Chat.HistoryLimit)
	})

	t.Run("panics on missing file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(t.TempDir()) })
	})

	t.Run("panics on invalid yaml", func(t *testing.T) {
		dir := writeConfigFolder(t, "port: [not-a-number\n", "admin_key: x\n")
		assert.Panics(t, func() { MustLoad(dir) })
	})
}

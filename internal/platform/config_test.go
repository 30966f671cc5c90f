package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/internal/platform"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"HRPC_STORE", "HRPC_DSN", "HRPC_CODEC", "HRPC_ADMIN_SECRET", "HRPC_ADDR", "HRPC_MODEL", "HRPC_READ_ONLY", "GEMINI_API_KEY", "API_KEY"} {
		t.Setenv(k, "")
	}
	cfg, err := platform.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultConfig(), cfg)
}

func TestLoadConfig_Layering(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, platform.ConfigFile), []byte(
		"store: sqlite\ndsn: site.db\naddr: \":9000\"\nadmin_secret: from-file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, platform.EnvFile), []byte(
		"HRPC_ADMIN_SECRET=from-dotenv\nGEMINI_API_KEY=dotenv-key\n"), 0o644))
	t.Setenv("HRPC_ADDR", ":7000")
	// godotenv never overrides the environment; t.Setenv restores it afterwards.
	t.Setenv("HRPC_ADMIN_SECRET", "")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("HRPC_ADMIN_SECRET")
	os.Unsetenv("GEMINI_API_KEY")

	cfg, err := platform.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "site.db", cfg.DSN)
	assert.Equal(t, ":7000", cfg.Addr, "environment wins over the file")
	assert.Equal(t, "from-dotenv", cfg.Secret, ".env wins over the file")
	assert.Equal(t, "dotenv-key", cfg.APIKey)
	assert.Equal(t, "json", cfg.Codec)
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := platform.LoadConfig("nope.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_BadReadOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HRPC_READ_ONLY", "maybe")
	_, err := platform.LoadConfig("")
	assert.Error(t, err)
}

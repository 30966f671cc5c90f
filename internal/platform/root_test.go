package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	base := t.TempDir()
	site := filepath.Join(base, "site")
	nested := filepath.Join(site, "data", "nested")
	marked := filepath.Join(base, "marked")
	empty := filepath.Join(base, "empty")

	for _, dir := range []string{nested, filepath.Join(marked, ".hrpc"), empty} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(site, ConfigFile), []byte("store: fs\n"), 0o644))

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"config file at start", site, site},
		{"config file above", nested, site},
		{"marker directory", marked, marked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start)
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.want), filepath.Clean(got))
		})
	}

	t.Run("no root", func(t *testing.T) {
		_, err := FindRoot(empty)
		assert.ErrorIs(t, err, ErrNoRoot)
	})
}

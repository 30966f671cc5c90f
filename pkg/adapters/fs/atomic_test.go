package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates and overwrites", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "hrpc_news.json")

		require.NoError(t, writeFileAtomic(name, []byte("[1]"), 0644))
		require.NoError(t, writeFileAtomic(name, []byte("[2]"), 0644))

		got, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "[2]", string(got))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, writeFileAtomic(filepath.Join(dir, "a.json"), []byte("[]"), 0644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.json", entries[0].Name())
	})

	t.Run("fails if directory missing", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "missing", "a.json")
		assert.Error(t, writeFileAtomic(name, []byte("[]"), 0644))
	})
}

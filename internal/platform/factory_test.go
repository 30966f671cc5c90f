package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/internal/platform"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/fs"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/memory"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	site, err := platform.New(ctx, "", platform.WithAdapter("memory"))
	require.NoError(t, err)
	defer site.Close(ctx)

	v := site.Coordinator.View()
	assert.Len(t, v.News, 2)
	assert.Equal(t, core.Guest, site.Coordinator.Mode())
	assert.Equal(t, "memory", core.ComponentType(site.Backend))
}

func TestNew_FS(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	site, err := platform.New(ctx, dir, platform.WithForceTemp(true), platform.WithMode(core.Maintainer))
	require.NoError(t, err)
	defer site.Close(ctx)

	fsBackend, ok := site.Backend.(*fs.Backend)
	require.True(t, ok, "expected fs backend")
	assert.Equal(t, dir, fsBackend.Path)

	for _, k := range content.Kinds() {
		_, err := os.Stat(filepath.Join(dir, k.Key()+".json"))
		assert.NoError(t, err, "seed of %s not persisted", k)
	}

	_, err = site.Coordinator.Add(ctx, content.KindMeeting, content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)

	// Reopening reads the persisted copy.
	again, err := platform.New(ctx, dir, platform.WithForceTemp(true))
	require.NoError(t, err)
	defer again.Close(ctx)
	assert.Len(t, again.Coordinator.View().Meetings, 3)
}

func TestNew_YAMLCodec(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	site, err := platform.New(ctx, dir, platform.WithForceTemp(true), platform.WithCodec("yaml"))
	require.NoError(t, err)
	defer site.Close(ctx)

	data, err := os.ReadFile(filepath.Join(dir, "hrpc_staff.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "icon: user-md")
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	site, err := platform.New(ctx, filepath.Join(t.TempDir(), "hrpc.db"), platform.WithAdapter("sqlite"))
	require.NoError(t, err)
	defer site.Close(ctx)
	assert.Len(t, site.Coordinator.View().Files, 3)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := platform.New(ctx, "", platform.WithAdapter("floppy"))
	assert.Error(t, err)

	_, err = platform.New(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithForceTemp(true), platform.WithMustExist(true))
	assert.Error(t, err)

	_, err = platform.New(ctx, "not-a-bucket", platform.WithAdapter("s3"))
	assert.Error(t, err)

	_, err = platform.New(ctx, "", platform.WithAdapter("memory"), platform.WithCodec("toml"))
	assert.Error(t, err)
}

func TestNew_ReadOnlyRefusesSeeding(t *testing.T) {
	_, err := platform.New(context.Background(), "", platform.WithBackend(memory.New()), platform.WithReadOnly(true))
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestResolveDataPath(t *testing.T) {
	assert.Equal(t, "data", platform.ResolveDataPath("", false))
	assert.Equal(t, "site", platform.ResolveDataPath("site", false))

	inTemp := filepath.Join(os.TempDir(), "x", "y")
	assert.Equal(t, inTemp, platform.ResolveDataPath(inTemp, true))
	assert.Equal(t, filepath.Join(os.TempDir(), "hrpc-dev", "content"), platform.ResolveDataPath("/srv/content", true))
	assert.Equal(t, filepath.Join(os.TempDir(), "hrpc-dev", "default"), platform.ResolveDataPath("", true))
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

func TestOpen_UsesDefaultDSN(t *testing.T) {
	var gotDriver, gotDSN string
	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return nil, errors.New("boom")
	}
	defer func() { sqlOpen = orig }()

	_, err := Open("")
	require.Error(t, err)
	assert.Equal(t, defaultDriver, gotDriver)
	assert.Equal(t, defaultDSN, gotDSN)
}

// TestBackend_Integration runs against a real server when HRPC_TEST_POSTGRES_DSN is set.
func TestBackend_Integration(t *testing.T) {
	dsn := os.Getenv("HRPC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HRPC_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	b, err := Open(dsn)
	require.NoError(t, err)
	defer b.Close(ctx)
	require.NoError(t, b.Initialize(ctx))
	require.NoError(t, b.Clear(ctx))

	_, err = b.Read(ctx, "hrpc_news")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, b.Write(ctx, "hrpc_news", []byte(`[{"id": 1}]`)))
	got, err := b.Read(ctx, "hrpc_news")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1}]`, string(got))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hrpc_news"}, keys)
}

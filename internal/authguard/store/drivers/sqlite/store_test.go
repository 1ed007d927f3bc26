package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/authguard/internal/authguard/store/drivers/sqlite"
	"github.com/aussiebroadwan/authguard/internal/authguard/store/storetest"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, dsn string) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestConformanceMemory(t *testing.T) {
	storetest.Run(t, newStore(t, ":memory:"))
}

func TestConformanceFile(t *testing.T) {
	storetest.Run(t, newStore(t, filepath.Join(t.TempDir(), "auth.db")))
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	st := newStore(t, ":memory:")
	require.NoError(t, st.ApplyMigrations())
}

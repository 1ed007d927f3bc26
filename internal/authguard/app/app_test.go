package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/authguard/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		JWTSecret:           "app-test-secret",
		JWTRefreshSecret:    "app-test-refresh",
		JWTIssuer:           "authguard-test",
		MFAIssuer:           "authguard-test",
		DatabaseDriver:      DriverSQLite,
		DatabaseFile:        filepath.Join(dir, "auth.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: time.Second,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = ""

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestApplicationServesAPI(t *testing.T) {
	cfg := testConfig(t)
	application, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	_, err = os.Stat(cfg.PepperFile)
	require.NoError(t, err, "pepper is created on first start")

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	client := authsdk.NewClient(srv.URL)
	ctx := context.Background()

	res, err := client.Register(ctx, authsdk.RegisterRequest{Email: "Erin@Example.com", Password: "pw123456"})
	require.NoError(t, err)
	require.Equal(t, "erin@example.com", res.User.Email)
	require.NotEmpty(t, res.RefreshToken)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOpenStoreIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	for range 2 {
		db, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		require.NoError(t, db.Ping(ctx))
		require.NoError(t, db.Close())
	}
}

func TestConfigKeysAreDocumented(t *testing.T) {
	keys := ConfigKeys()
	seen := map[string]bool{}
	for _, k := range keys {
		require.NotEmpty(t, k.Description, k.Name)
		require.False(t, seen[k.Name], "duplicate key %s", k.Name)
		seen[k.Name] = true
	}
	require.True(t, seen["JWT_SECRET"])
}

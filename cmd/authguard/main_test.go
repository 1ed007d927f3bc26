package main

import (
	"bytes"
	"testing"

	"github.com/aussiebroadwan/authguard/internal/authguard/app"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	require.Equal(t, app.BuildVersion+"\n", run(t, "version"))
}

func TestConfigKeys(t *testing.T) {
	out := run(t, "config", "keys")
	require.Contains(t, out, "KEY")
	for _, k := range app.ConfigKeys() {
		require.Contains(t, out, k.Name)
	}
}

func TestServeRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_DATABASE_FILE", t.TempDir()+"/auth.db")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve"})
	require.ErrorContains(t, cmd.Execute(), "JWT_SECRET")
}

package otpx_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/aussiebroadwan/authguard/pkg/cryptox"
	"github.com/aussiebroadwan/authguard/pkg/otpx"
	"github.com/stretchr/testify/require"
)

var backupCodeFormat = regexp.MustCompile(`^[A-Z0-9]{6}-[A-Z0-9]{6}$`)

func newBackupCodes() *otpx.BackupCodes {
	return &otpx.BackupCodes{Hasher: &cryptox.Hasher{
		Params: cryptox.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
	}}
}

func TestBackupCodes_Generate(t *testing.T) {
	bc := newBackupCodes()

	codes, err := bc.Generate(0)
	require.NoError(t, err)
	require.Len(t, codes, otpx.DefaultBackupCodeCount)

	seen := map[string]bool{}
	for _, c := range codes {
		require.Regexp(t, backupCodeFormat, c)
		require.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}

	more, err := bc.Generate(3)
	require.NoError(t, err)
	require.Len(t, more, 3)
}

func TestBackupCodes_ConsumeOnce(t *testing.T) {
	bc := newBackupCodes()
	ctx := context.Background()

	codes, err := bc.Generate(3)
	require.NoError(t, err)
	digests, err := bc.HashAll(ctx, codes)
	require.NoError(t, err)
	original := append([]string(nil), digests...)

	ok, remaining := bc.Consume(codes[1], digests)
	require.True(t, ok)
	require.Len(t, remaining, 2)
	require.Equal(t, []string{digests[0], digests[2]}, remaining)
	require.Equal(t, original, digests, "input must not be mutated")

	ok, after := bc.Consume(codes[1], remaining)
	require.False(t, ok, "a consumed code must not match again")
	require.Equal(t, remaining, after)

	ok, _ = bc.Consume(codes[0], remaining)
	require.True(t, ok)
}

func TestBackupCodes_ConsumeNormalizesInput(t *testing.T) {
	bc := newBackupCodes()

	codes, err := bc.Generate(1)
	require.NoError(t, err)
	digests, err := bc.HashAll(context.Background(), codes)
	require.NoError(t, err)

	ok, remaining := bc.Consume("  "+strings.ToLower(codes[0])+"\n", digests)
	require.True(t, ok)
	require.Empty(t, remaining)
}

func TestBackupCodes_ConsumeNoMatch(t *testing.T) {
	bc := newBackupCodes()

	codes, err := bc.Generate(2)
	require.NoError(t, err)
	digests, err := bc.HashAll(context.Background(), codes)
	require.NoError(t, err)

	for _, submitted := range []string{"", "AAAAAA-AAAAAA", "123456"} {
		ok, remaining := bc.Consume(submitted, digests)
		require.False(t, ok)
		require.Equal(t, digests, remaining)
	}

	ok, remaining := bc.Consume(codes[0], nil)
	require.False(t, ok)
	require.Empty(t, remaining)
}

func TestBackupCodes_HashAllRequiresHasher(t *testing.T) {
	var bc otpx.BackupCodes
	_, err := bc.HashAll(context.Background(), []string{"A"})
	require.Error(t, err)
}

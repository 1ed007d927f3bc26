package cryptox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Cheap parameters keep the suite fast; the format is identical.
var testParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func newTestHasher(pepper string) *Hasher {
	return &Hasher{Pepper: pepper, Params: testParams}
}

func TestHasher_Hash(t *testing.T) {
	h := newTestHasher("pepper")

	tests := []struct {
		name   string
		secret string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
		{"backup code", "ABC123-XYZ789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := h.Hash(tt.secret)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(digest, "$argon2id$v=19$"), "digest should be in PHC format")

			parts := strings.Split(digest, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "m=1024,t=1,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.True(t, h.Compare(tt.secret, digest))
		})
	}
}

func TestHasher_UniqueSalts(t *testing.T) {
	h := newTestHasher("")

	d1, err := h.Hash("samepassword")
	require.NoError(t, err)
	d2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, d1, d2, "digests should differ due to unique salts")
	require.True(t, h.Compare("samepassword", d1))
	require.True(t, h.Compare("samepassword", d2))
}

func TestHasher_Mismatch(t *testing.T) {
	h := newTestHasher("")
	digest, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		require.False(t, h.Compare(wrong, digest), wrong)
		require.ErrorIs(t, h.Verify(wrong, digest), ErrMismatch)
	}
}

func TestHasher_InvalidDigest(t *testing.T) {
	h := newTestHasher("")

	tests := []struct {
		name   string
		digest string
	}{
		{"empty digest", ""},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero parameters", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2b$10$short"},
		{"plain text", "not-a-digest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, h.Compare("test-password", tt.digest))
			require.ErrorIs(t, h.Verify("test-password", tt.digest), ErrInvalidDigest)
		})
	}
}

func TestHasher_PepperIsApplied(t *testing.T) {
	a := newTestHasher("pepper-a")
	b := newTestHasher("pepper-b")

	digest, err := a.Hash("test-password")
	require.NoError(t, err)

	require.True(t, a.Compare("test-password", digest))
	require.False(t, b.Compare("test-password", digest), "a different pepper must not verify")
}

func TestHasher_BcryptCompat(t *testing.T) {
	h := newTestHasher("pepper-is-ignored-for-bcrypt")

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-password"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, h.Compare("legacy-password", string(legacy)))
	require.False(t, h.Compare("other-password", string(legacy)))
}

func TestHasher_DefaultParams(t *testing.T) {
	var h Hasher

	digest, err := h.Hash("test-password")
	require.NoError(t, err)
	require.Contains(t, digest, "m=19456,t=2,p=1")
	require.True(t, h.Compare("test-password", digest))
}

func TestHasher_HashMany(t *testing.T) {
	h := newTestHasher("")

	t.Run("empty input", func(t *testing.T) {
		out, err := h.HashMany(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, out)
		require.Empty(t, out)
	})

	t.Run("preserves order", func(t *testing.T) {
		secrets := []string{"one", "two", "three", "four", "five"}
		out, err := h.HashMany(context.Background(), secrets)
		require.NoError(t, err)
		require.Len(t, out, len(secrets))

		for i, s := range secrets {
			require.True(t, h.Compare(s, out[i]), "digest %d should match %q", i, s)
		}
		require.False(t, h.Compare("one", out[1]))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := h.HashMany(ctx, []string{"a", "b"})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHasher_Burn(t *testing.T) {
	h := newTestHasher("")
	require.NotPanics(t, func() {
		h.Burn("anything")
		h.Burn("anything else")
	})
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "existing pepper should be reused")

	_, err = LoadOrCreatePepper("")
	require.Error(t, err)
}

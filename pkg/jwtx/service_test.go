package jwtx_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/authguard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "primary-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func newService(t *testing.T, mutate ...func(*jwtx.TokenConfig)) *jwtx.TokenService {
	t.Helper()
	cfg := jwtx.TokenConfig{
		Secret:        testSecret,
		RefreshSecret: testRefreshSecret,
		Issuer:        "authguard-test",
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := jwtx.NewTokenService(cfg)
	require.NoError(t, err)
	return s
}

func clockAt(at time.Time) func(*jwtx.TokenConfig) {
	return func(c *jwtx.TokenConfig) { c.Now = func() time.Time { return at } }
}

// payload decodes the raw claims so tests can assert on wire names.
func payload(t *testing.T, token string) map[string]any {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestNewTokenService(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := jwtx.NewTokenService(jwtx.TokenConfig{})
		require.ErrorIs(t, err, jwtx.ErrSecretRequired)
	})

	t.Run("refresh secret reuse", func(t *testing.T) {
		_, err := jwtx.NewTokenService(jwtx.TokenConfig{Secret: "same", RefreshSecret: "same"})
		require.ErrorIs(t, err, jwtx.ErrRefreshSecretReuse)
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := jwtx.NewTokenService(jwtx.TokenConfig{Secret: "x"})
		require.NoError(t, err)
		require.Equal(t, jwtx.DefaultAccessTokenTTL, s.AccessTTL())
		require.False(t, s.RefreshEnabled())
	})
}

func TestIssueAccessAndVerify(t *testing.T) {
	s := newService(t)

	token, err := s.IssueAccess(7, "alice@example.com", true, true)
	require.NoError(t, err)

	claims, err := s.VerifySession(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.Equal(t, "alice@example.com", claims.Email)
	require.True(t, claims.MFAEnabled)
	require.True(t, claims.MFAVerified)
	require.False(t, claims.Temp)
	require.Equal(t, "authguard-test", claims.Issuer)
	require.NotEmpty(t, claims.ID)

	p := payload(t, token)
	require.Equal(t, "7", p["sub"])
	require.Equal(t, true, p["mfaEnabled"])
	require.Equal(t, true, p["mfaVerified"])
	require.NotContains(t, p, "temp")
}

func TestAccessTokenLifetime(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	s := newService(t, clockAt(issued), func(c *jwtx.TokenConfig) { c.AccessTTL = time.Hour })

	token, err := s.IssueAccess(1, "a@example.com", false, false)
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	later := newService(t, clockAt(issued.Add(time.Hour+time.Second)))
	_, err = later.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidOrExpired)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTempTokenNeverASession(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	s := newService(t, clockAt(issued))

	temp, err := s.IssueTemp(3, "bob@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(temp)
	require.NoError(t, err)
	require.True(t, claims.Temp)
	require.True(t, claims.MFAEnabled)
	require.False(t, claims.MFAVerified)
	require.Equal(t, issued.Add(jwtx.TempTokenTTL).Unix(), claims.ExpiresAt.Unix())

	_, err = s.VerifySession(temp)
	require.ErrorIs(t, err, jwtx.ErrTempToken)

	expired := newService(t, clockAt(issued.Add(jwtx.TempTokenTTL+time.Second)))
	_, err = expired.Verify(temp)
	require.ErrorIs(t, err, jwtx.ErrInvalidOrExpired)
}

func TestVerifyRejects(t *testing.T) {
	s := newService(t)
	good, err := s.IssueAccess(1, "a@example.com", false, false)
	require.NoError(t, err)

	other := newService(t, func(c *jwtx.TokenConfig) {
		c.Secret = "someone-elses-secret"
		c.RefreshSecret = ""
	})
	foreign, err := other.IssueAccess(1, "a@example.com", false, false)
	require.NoError(t, err)

	wrongIssuer := newService(t, func(c *jwtx.TokenConfig) { c.Issuer = "elsewhere" })
	misissued, err := wrongIssuer.IssueAccess(1, "a@example.com", false, false)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"iss": "authguard-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"2","iss":"authguard-test","exp":9999999999}`)) + "." + parts[2]

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not.a.jwt",
		"wrong secret":   foreign,
		"wrong issuer":   misissued,
		"alg none":       none,
		"tampered claim": tampered,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrInvalidOrExpired)
		})
	}
}

func TestRefreshTokens(t *testing.T) {
	s := newService(t)

	refresh, ok, err := s.IssueRefresh(9, "carol@example.com", false)
	require.NoError(t, err)
	require.True(t, ok)

	claims, ok, err := s.VerifyRefresh(refresh)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "carol@example.com", claims.Email)
	require.False(t, claims.MFAVerified)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(9), id)

	t.Run("carries second factor state", func(t *testing.T) {
		verified, ok, err := s.IssueRefresh(9, "carol@example.com", true)
		require.NoError(t, err)
		require.True(t, ok)

		claims, _, err := s.VerifyRefresh(verified)
		require.NoError(t, err)
		require.True(t, claims.MFAVerified)
	})

	t.Run("not accepted as access token", func(t *testing.T) {
		_, err := s.VerifySession(refresh)
		require.ErrorIs(t, err, jwtx.ErrInvalidOrExpired)
	})

	t.Run("access token not accepted as refresh", func(t *testing.T) {
		access, err := s.IssueAccess(9, "carol@example.com", false, false)
		require.NoError(t, err)
		_, ok, err := s.VerifyRefresh(access)
		require.True(t, ok)
		require.ErrorIs(t, err, jwtx.ErrInvalidOrExpired)
	})

	t.Run("unconfigured", func(t *testing.T) {
		plain := newService(t, func(c *jwtx.TokenConfig) { c.RefreshSecret = "" })

		token, ok, err := plain.IssueRefresh(9, "carol@example.com", false)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, token)

		_, ok, err = plain.VerifyRefresh(refresh)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestDecode(t *testing.T) {
	s := newService(t, clockAt(time.Unix(1_000_000_000, 0)))
	token, err := s.IssueTemp(5, "dave@example.com")
	require.NoError(t, err)

	// Long expired and still decodable.
	claims := jwtx.Decode(token)
	require.NotNil(t, claims)
	require.Equal(t, "5", claims.Subject)
	require.True(t, claims.Temp)

	require.Nil(t, jwtx.Decode("garbage"))
}

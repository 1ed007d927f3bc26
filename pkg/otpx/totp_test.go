package otpx_test

import (
	"encoding/base32"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/authguard/pkg/otpx"
	"github.com/stretchr/testify/require"
)

// Aligned to the start of a 30s step.
var stepStart = time.Unix(1_700_000_010, 0)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTOTP_GenerateSecret(t *testing.T) {
	var engine otpx.TOTP

	s1, err := engine.GenerateSecret()
	require.NoError(t, err)
	s2, err := engine.GenerateSecret()
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
	require.Len(t, s1, 32, "160-bit secret encodes to 32 base32 chars")
	require.NotContains(t, s1, "=")

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s1)
	require.NoError(t, err)
	require.Len(t, raw, otpx.SecretSize)
}

func TestTOTP_ProvisioningURI(t *testing.T) {
	engine := otpx.TOTP{Issuer: "Guardian"}
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)

	t.Run("explicit issuer", func(t *testing.T) {
		uri, err := engine.ProvisioningURI(secret, "alice@example.com", "Acme")
		require.NoError(t, err)

		u, err := url.Parse(uri)
		require.NoError(t, err)
		require.Equal(t, "otpauth", u.Scheme)
		require.Equal(t, "totp", u.Host)
		require.Equal(t, "/Acme:alice@example.com", u.Path)

		q := u.Query()
		require.Equal(t, secret, q.Get("secret"))
		require.Equal(t, "Acme", q.Get("issuer"))
		require.Equal(t, "30", q.Get("period"))
		require.Equal(t, "6", q.Get("digits"))
		require.Equal(t, "SHA1", q.Get("algorithm"))
	})

	t.Run("default issuer", func(t *testing.T) {
		uri, err := engine.ProvisioningURI(secret, "bob@example.com", "")
		require.NoError(t, err)
		require.Contains(t, uri, "issuer=Guardian")
	})

	t.Run("invalid secret", func(t *testing.T) {
		_, err := engine.ProvisioningURI("not base32!", "bob@example.com", "")
		require.Error(t, err)
	})
}

func TestTOTP_QRCode(t *testing.T) {
	var engine otpx.TOTP
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	uri, err := engine.ProvisioningURI(secret, "alice@example.com", "")
	require.NoError(t, err)

	dataURL, err := engine.QRCode(uri)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	_, err = engine.QRCode("https://example.com")
	require.Error(t, err)
}

func TestTOTP_VerifyWindow(t *testing.T) {
	var gen otpx.TOTP
	secret, err := gen.GenerateSecret()
	require.NoError(t, err)

	code, err := gen.CodeAt(secret, stepStart)
	require.NoError(t, err)
	require.Len(t, code, 6)

	tests := []struct {
		name  string
		steps int
		want  bool
	}{
		{"same step", 0, true},
		{"one step later", 1, true},
		{"two steps later", 2, true},
		{"two steps earlier", -2, true},
		{"three steps later", 3, false},
		{"three steps earlier", -3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := otpx.TOTP{Now: fixedClock(stepStart.Add(time.Duration(tt.steps) * 30 * time.Second))}
			require.Equal(t, tt.want, engine.Verify(secret, code))
		})
	}
}

func TestTOTP_VerifyExactStep(t *testing.T) {
	var gen otpx.TOTP
	secret, err := gen.GenerateSecret()
	require.NoError(t, err)
	code, err := gen.CodeAt(secret, stepStart)
	require.NoError(t, err)

	engine := otpx.TOTP{Skew: -1, Now: fixedClock(stepStart.Add(30 * time.Second))}
	require.False(t, engine.Verify(secret, code))

	engine.Now = fixedClock(stepStart)
	require.True(t, engine.Verify(secret, code))
}

func TestTOTP_VerifyRejectsGarbage(t *testing.T) {
	engine := otpx.TOTP{Now: fixedClock(stepStart)}
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	code, err := engine.CodeAt(secret, stepStart)
	require.NoError(t, err)

	require.True(t, engine.Verify(secret, " "+code+" "), "surrounding whitespace is ignored")

	for _, tc := range []struct {
		name, secret, code string
	}{
		{"empty code", secret, ""},
		{"short code", secret, code[:5]},
		{"long code", secret, code + "0"},
		{"letters", secret, "abcdef"},
		{"empty secret", "", code},
		{"malformed secret", "!!!!", code},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, engine.Verify(tc.secret, tc.code))
		})
	}
}

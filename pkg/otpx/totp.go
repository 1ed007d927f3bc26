// Package otpx implements the second factor: RFC 6238 TOTP codes and
// single-use recovery (backup) codes.
package otpx

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultIssuer = "authguard"
	DefaultPeriod = 30
	DefaultSkew   = 2
	SecretSize    = 20 // 160-bit seed, base32 encodes to 32 chars

	qrSize = 200
)

// TOTP generates and checks time-based one-time passwords (SHA-1, 6 digits).
// The zero value is ready to use.
type TOTP struct {
	// Issuer labels the account in authenticator apps.
	Issuer string

	// Skew is the number of 30s steps accepted either side of now.
	// Zero means DefaultSkew; use a negative value for exact-step only.
	Skew int

	// Now is the clock used for verification, time.Now if nil.
	Now func() time.Time
}

func (t *TOTP) issuer() string {
	if t.Issuer == "" {
		return DefaultIssuer
	}
	return t.Issuer
}

func (t *TOTP) skew() uint {
	switch {
	case t.Skew == 0:
		return DefaultSkew
	case t.Skew < 0:
		return 0
	default:
		return uint(t.Skew)
	}
}

func (t *TOTP) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// GenerateSecret returns a fresh base32 (unpadded) shared secret.
func (t *TOTP) GenerateSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer(),
		AccountName: "enrollment",
		Period:      DefaultPeriod,
		SecretSize:  SecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("otpx: generate secret: %w", err)
	}
	return key.Secret(), nil
}

// ProvisioningURI builds the otpauth:// URI an authenticator app scans.
// An empty issuer falls back to the configured one.
func (t *TOTP) ProvisioningURI(secret, account, issuer string) (string, error) {
	if issuer == "" {
		issuer = t.issuer()
	}

	raw, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      DefaultPeriod,
		Secret:      raw,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("otpx: build provisioning uri: %w", err)
	}
	return key.URL(), nil
}

// QRCode renders a provisioning URI as a PNG data URL suitable for an
// <img src>.
func (t *TOTP) QRCode(uri string) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("otpx: parse provisioning uri: %w", err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("otpx: render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("otpx: encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Verify reports whether code is valid for secret at the current time,
// allowing Skew steps of drift. It never errors; any malformed input is
// simply not valid.
func (t *TOTP) Verify(secret, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, t.now(), totp.ValidateOpts{
		Period:    DefaultPeriod,
		Skew:      t.skew(),
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// CodeAt returns the code for secret at the given instant. Mostly useful to
// tests and tooling.
func (t *TOTP) CodeAt(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    DefaultPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimRight(strings.ToUpper(strings.TrimSpace(secret)), "=")
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("otpx: invalid secret encoding")
	}
	return raw, nil
}

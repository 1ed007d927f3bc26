package cryptox

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMismatch      = errors.New("cryptox: secret does not match")
	ErrInvalidDigest = errors.New("cryptox: invalid digest format")
)

// Argon2Params tunes the Argon2id key derivation.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultArgon2Params follows the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Hasher produces and checks salted one-way digests for passwords and
// backup codes. The zero value is usable and hashes with no pepper and
// DefaultArgon2Params.
type Hasher struct {
	Pepper string
	Params Argon2Params

	dummyOnce sync.Once
	dummy     string
}

// NewHasher returns a Hasher using the default parameters.
func NewHasher(pepper string) *Hasher {
	return &Hasher{Pepper: pepper, Params: DefaultArgon2Params}
}

func (h *Hasher) params() Argon2Params {
	if h.Params == (Argon2Params{}) {
		return DefaultArgon2Params
	}
	return h.Params
}

// Hash generates a PHC-format Argon2id digest including salt and parameters.
func (h *Hasher) Hash(secret string) (string, error) {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}
	key := argon2.IDKey([]byte(secret+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare reports whether secret matches digest. Malformed digests never
// match.
func (h *Hasher) Compare(secret, digest string) bool {
	return h.Verify(secret, digest) == nil
}

// Verify is Compare with the reason for a mismatch. Bcrypt digests are
// accepted so accounts imported from a bcrypt-based deployment keep working;
// those were never peppered.
func (h *Hasher) Verify(secret, digest string) error {
	if isBcrypt(digest) {
		if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrMismatch
			}
			return fmt.Errorf("%w: %w", ErrInvalidDigest, err)
		}
		return nil
	}

	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidDigest)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidDigest)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: wrong version", ErrInvalidDigest)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %w", ErrInvalidDigest, err)
	}
	if mem == 0 || iters == 0 || par == 0 {
		return fmt.Errorf("%w: zero parameter", ErrInvalidDigest)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", ErrInvalidDigest, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return fmt.Errorf("%w: hash", ErrInvalidDigest)
	}

	got := argon2.IDKey(
		[]byte(secret+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(want)), // #nosec G115 - bounded by decoded digest length
	)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

// HashMany hashes every secret concurrently. The result has the same length
// and order as the input.
func (h *Hasher) HashMany(ctx context.Context, secrets []string) ([]string, error) {
	out := make([]string, len(secrets))
	if len(secrets) == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range secrets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := h.Hash(s)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Burn runs one comparison against a throwaway digest so callers can spend
// the same work on an unknown account as on a known one.
func (h *Hasher) Burn(secret string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = h.Hash("authguard-dummy-secret")
	})
	_ = h.Verify(secret, h.dummy)
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

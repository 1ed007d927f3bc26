package otpx

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/authguard/pkg/cryptox"
)

const (
	DefaultBackupCodeCount = 10

	backupAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	backupGroupSize = 6
	// Largest multiple of len(backupAlphabet) that fits in a byte. Bytes at or
	// above it are rejected so every symbol is equally likely.
	backupRejectAt = 256 - 256%len(backupAlphabet)
)

// BackupCodes issues and redeems single-use recovery codes of the form
// XXXXXX-XXXXXX. Only digests are ever persisted.
type BackupCodes struct {
	Hasher *cryptox.Hasher
}

// Generate returns n distinct plaintext codes (DefaultBackupCodeCount when
// n <= 0).
func (b *BackupCodes) Generate(n int) ([]string, error) {
	if n <= 0 {
		n = DefaultBackupCodeCount
	}

	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(codes) < n {
		c, err := newBackupCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}
	return codes, nil
}

// HashAll hashes every code, keeping order.
func (b *BackupCodes) HashAll(ctx context.Context, codes []string) ([]string, error) {
	if b.Hasher == nil {
		return nil, errors.New("otpx: backup codes need a hasher")
	}
	return b.Hasher.HashMany(ctx, codes)
}

// Consume checks submitted against the stored digests. On a match it returns
// a new slice without the first matching digest; digests itself is never
// modified. Every digest is compared regardless of where the match is.
func (b *BackupCodes) Consume(submitted string, digests []string) (bool, []string) {
	code := NormalizeBackupCode(submitted)
	if code == "" || b.Hasher == nil {
		return false, slices.Clone(digests)
	}

	match := -1
	for i, d := range digests {
		if b.Hasher.Compare(code, d) && match < 0 {
			match = i
		}
	}
	if match < 0 {
		return false, slices.Clone(digests)
	}

	remaining := make([]string, 0, len(digests)-1)
	remaining = append(remaining, digests[:match]...)
	remaining = append(remaining, digests[match+1:]...)
	return true, remaining
}

// NormalizeBackupCode trims and upper-cases user input.
func NormalizeBackupCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func newBackupCode() (string, error) {
	out := make([]byte, 0, backupGroupSize*2+1)
	buf := make([]byte, 32)

	for len(out) < cap(out) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("otpx: read random: %w", err)
		}
		for _, v := range buf {
			if int(v) >= backupRejectAt {
				continue
			}
			if len(out) == backupGroupSize {
				out = append(out, '-')
			}
			out = append(out, backupAlphabet[int(v)%len(backupAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}

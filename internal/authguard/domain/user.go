package domain

import "time"

type User struct {
	ID             int64
	Email          string
	Name           string
	PasswordHash   *string  // argon2id or legacy bcrypt; nil for accounts without a password
	MFAEnabled     bool     // true only after a verified enrollment
	MFASecret      *string  // base32 TOTP secret, set while enrollment is pending or enabled
	MFABackupCodes []string // hashed, single use
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool { return u.PasswordHash != nil && *u.PasswordHash != "" }

// HasMFASecret reports whether a TOTP secret is stored.
func (u User) HasMFASecret() bool { return u.MFASecret != nil && *u.MFASecret != "" }

// Public strips every credential from u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		MFAEnabled: u.MFAEnabled,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// PublicUser is the only user representation that leaves the service layer.
type PublicUser struct {
	ID         int64
	Email      string
	Name       string
	MFAEnabled bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

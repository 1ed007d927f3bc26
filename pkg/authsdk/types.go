package authsdk

import "time"

// JSON field names are camelCase to stay wire compatible with existing
// clients of the auth endpoints.

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_credentials"`
	ErrorDescription string `json:"error_description" example:"invalid credentials"`
}

// ============================================================================
// Auth Types
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"pw123456"`
	Name     string `json:"name,omitempty" example:"Alice"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"pw123456"`
}

// VerifyMFARequest completes an MFA-pending login. Code is either a TOTP
// code or a backup code.
type VerifyMFARequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code" example:"123456"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// User is the public view of an account. Credentials never appear here.
type User struct {
	ID         int64     `json:"id" example:"1"`
	Email      string    `json:"email" example:"alice@example.com"`
	Name       string    `json:"name,omitempty" example:"Alice"`
	MFAEnabled bool      `json:"mfaEnabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AuthResponse is returned by register, login, MFA verification and
// refresh. When RequiresMFA is set only TempToken and Message are present.
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty" example:"900"`
	User         *User  `json:"user,omitempty"`

	RequiresMFA bool   `json:"requiresMfa,omitempty"`
	TempToken   string `json:"tempToken,omitempty"`
	Message     string `json:"message,omitempty" example:"MFA verification required"`
}

// ============================================================================
// MFA Types
// ============================================================================

// MFASetupResponse carries the plaintext backup codes. They are shown once
// and cannot be fetched again.
type MFASetupResponse struct {
	Secret      string   `json:"secret" example:"JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"`
	OTPAuthURL  string   `json:"otpauthUrl" example:"otpauth://totp/authguard:alice@example.com?secret=..."`
	QRCode      string   `json:"qrCode" example:"data:image/png;base64,..."`
	BackupCodes []string `json:"backupCodes"`
}

type EnableMFARequest struct {
	Code string `json:"code" example:"123456"`
}

type DisableMFARequest struct {
	Code     string `json:"code" example:"123456"`
	Password string `json:"password" example:"pw123456"`
}

type RegenerateBackupCodesRequest struct {
	Code string `json:"code" example:"123456"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backupCodes"`
}

type MFAStatusResponse struct {
	Enabled              bool `json:"enabled"`
	Pending              bool `json:"pending"`
	BackupCodesRemaining int  `json:"backupCodesRemaining" example:"10"`
}

// MessageResponse acknowledges an action that returns no data.
type MessageResponse struct {
	Message string `json:"message" example:"MFA enabled successfully"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency in /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

package domain

// MFASetup is returned once when enrollment starts. The backup codes are
// plaintext and never retrievable again.
type MFASetup struct {
	Secret      string // base32
	OTPAuthURL  string // otpauth:// provisioning URI
	QRCode      string // PNG data URL of OTPAuthURL
	BackupCodes []string
}

type MFAStatus struct {
	Enabled              bool
	Pending              bool // secret issued, not yet confirmed
	BackupCodesRemaining int
}

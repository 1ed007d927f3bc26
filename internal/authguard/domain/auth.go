package domain

// AuthResult is the outcome of a credential exchange. Exactly one of
// AccessToken or TempToken is set.
type AuthResult struct {
	AccessToken  string
	RefreshToken string // empty when refresh tokens are not configured
	ExpiresIn    int64  // access token lifetime in seconds
	User         PublicUser

	// RequiresMFA is set when the password was right but a second factor is
	// still needed; TempToken only unlocks the MFA verification step.
	RequiresMFA bool
	TempToken   string
}
